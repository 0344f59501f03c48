// internal/httpserver/routes_daily.go
//
// Read-only routes around the daily challenge:
//   - GET /tiers              → tier configuration in display order
//   - GET /chapters           → selectable chapters (?tier=, ?part=, ?q=)
//   - GET /stats              → the player's lifetime statistics
//   - GET /daily/leaderboard  → top 20 results for a tier (?tier=, ?date=)

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/game"
	"github.com/robalobadob/tadabbur/internal/stats"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleTiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, challenge.Tiers())
}

// handleChapters lists the chapters a player can pick from. Without a tier
// every chapter is listed.
func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	ix := s.opts.Builder.Index()
	if ix == nil {
		writeError(w, http.StatusServiceUnavailable, "data_unavailable")
		return
	}
	q := r.URL.Query()

	t := challenge.Hard
	if name := q.Get("tier"); name != "" {
		var ok bool
		if t, ok = challenge.Lookup(name); !ok {
			writeError(w, http.StatusNotFound, "unknown_tier")
			return
		}
	}
	list := s.opts.Builder.Chapters(t, q.Get("q"))

	if p := q.Get("part"); p != "" {
		part, err := strconv.Atoi(p)
		if err != nil || part < 1 || part > corpus.Parts {
			writeError(w, http.StatusBadRequest, "invalid_part")
			return
		}
		inPart := lo.Map(ix.ChaptersInPart(part), func(c corpus.Chapter, _ int) int { return c.Number })
		list = lo.Filter(list, func(c corpus.Chapter, _ int) bool { return lo.Contains(inPart, c.Number) })
	}
	if list == nil {
		list = []corpus.Chapter{}
	}
	writeJSON(w, http.StatusOK, list)
}

type statsRes struct {
	*stats.Statistics
	WinPercent   int         `json:"winPercent"`
	Bars         []stats.Bar `json:"bars"`
	AllCompleted bool        `json:"allCompleted"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) error {
		st := sess.Stats()
		writeJSON(w, http.StatusOK, statsRes{
			Statistics:   st,
			WinPercent:   st.WinPercent(),
			Bars:         st.Bars(sess.StatsBuckets()),
			AllCompleted: sess.AllCompleted(),
		})
		return nil
	})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Tier string        `json:"tier"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for a tier on the given date
// (default today, Easy).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.opts.Results == nil {
		writeError(w, http.StatusNotFound, "leaderboard_disabled")
		return
	}
	t := challenge.Easy
	if name := r.URL.Query().Get("tier"); name != "" {
		var ok bool
		if t, ok = challenge.Lookup(name); !ok {
			writeError(w, http.StatusNotFound, "unknown_tier")
			return
		}
	}
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.opts.Now())
	}
	rows, err := s.opts.Results.Leaderboard(r.Context(), date, t.Name, 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Tier: t.Name, Top: rows})
}
