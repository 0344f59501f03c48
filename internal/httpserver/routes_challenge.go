// internal/httpserver/routes_challenge.go
//
// HTTP routes for one tier of today's challenge.
// Exposes, under /challenge/{tier}:
//   - GET  /           → current state (chapter hidden until completed)
//   - POST /guess      → {"chapter": n}
//   - POST /hint       → unlock the next verse
//   - POST /giveup     → end the tier as a loss
//   - POST /view       → {"index": i}, switch the visible verse
//   - GET  /share      → share text of a completed tier
//   - GET  /commentary → tafsir excerpt for a completed tier
//
// The game state never depends on the commentary API: it is fetched after
// the player's lock is released.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/corpus"
	"github.com/robalobadob/tadabbur/internal/game"
	"github.com/robalobadob/tadabbur/internal/quranapi"
)

// mountChallenge registers all /challenge routes.
func (s *Server) mountChallenge(r chi.Router) {
	r.Route("/challenge/{tier}", func(r chi.Router) {
		r.Get("/", s.handleChallenge)
		r.Post("/guess", s.handleGuess)
		r.Post("/hint", s.handleHint)
		r.Post("/giveup", s.handleGiveUp)
		r.Post("/view", s.handleNavigate)
		r.Get("/share", s.handleShare)
		r.Get("/commentary", s.handleCommentary)
	})
}

// -----------------------------------------------------------------------------
// payloads

type verseRes struct {
	Basmala     string `json:"basmala,omitempty"`
	Text        string `json:"text"`
	Translation string `json:"translation,omitempty"`
	Audio       string `json:"audio,omitempty"`
	Ref         string `json:"ref,omitempty"` // chapter:verse, once completed
}

type attemptRes struct {
	Chapter int    `json:"chapter"`
	Name    string `json:"name,omitempty"`
	Correct bool   `json:"correct"`
}

type challengeRes struct {
	Date          string          `json:"date"`
	Tier          string          `json:"tier"`
	Label         string          `json:"label"`
	MaxAttempts   int             `json:"maxAttempts"`
	Remaining     int             `json:"remaining"`
	Status        string          `json:"status"`
	Attempts      []attemptRes    `json:"attempts"`
	Verses        []verseRes      `json:"verses"`
	Visible       int             `json:"visible"`
	HintAvailable bool            `json:"hintAvailable"`
	HintsEnabled  bool            `json:"hintsEnabled"`
	Review        bool            `json:"review"`
	Message       string          `json:"message,omitempty"`
	Answer        *corpus.Chapter `json:"answer,omitempty"`
	AllCompleted  bool            `json:"allCompleted"`
}

// challengeOf renders v. The chapter of the verse is only revealed in review.
func (s *Server) challengeOf(v *game.View, allDone bool) challengeRes {
	ix := s.opts.Builder.Index()
	res := challengeRes{
		Date:          v.Date,
		Tier:          v.Tier.Name,
		Label:         v.Tier.Label,
		MaxAttempts:   v.Tier.MaxAttempts,
		Remaining:     v.Remaining,
		Status:        v.Status(),
		Attempts:      make([]attemptRes, 0, len(v.Progress.Attempts)),
		Visible:       v.Challenge.Visible,
		HintAvailable: v.Progress.HintAvailable && !v.HintsDisabled,
		HintsEnabled:  v.Tier.Hints && len(v.Challenge.Unlocked) <= challenge.MaxHints && !v.HintsDisabled && !v.Review,
		Review:        v.Review,
		Message:       v.Message(),
		AllCompleted:  allDone,
	}
	for _, a := range v.Progress.Attempts {
		ar := attemptRes{Chapter: a.Chapter, Correct: a.Correct}
		if ch, ok := ix.Chapter(a.Chapter); ok {
			ar.Name = ch.EnglishName
		}
		res.Attempts = append(res.Attempts, ar)
	}
	for _, vs := range v.Challenge.Unlocked {
		basmala, text := corpus.SplitBasmala(vs)
		vr := verseRes{Basmala: basmala, Text: text}
		vr.Translation, _ = ix.Translation(vs.Number)
		vr.Audio, _ = ix.Audio(vs.Number)
		if v.Review {
			vr.Ref = vs.Key()
		}
		res.Verses = append(res.Verses, vr)
	}
	if v.Review {
		if ch, ok := ix.Chapter(v.Challenge.Verse.Chapter.Number); ok {
			res.Answer = &ch
		}
	}
	return res
}

type outcomeRes struct {
	Outcome   string       `json:"outcome"`
	Challenge challengeRes `json:"challenge"`
}

// -----------------------------------------------------------------------------
// handlers

func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) error {
		v, err := sess.View(r.Context(), chi.URLParam(r, "tier"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, s.challengeOf(v, sess.AllCompleted()))
		return nil
	})
}

type guessReq struct {
	Chapter int `json:"chapter"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withSession(w, r, func(sess *game.Session) error {
		out, v, err := sess.Guess(r.Context(), chi.URLParam(r, "tier"), req.Chapter)
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, outcomeRes{Outcome: out.String(), Challenge: s.challengeOf(v, sess.AllCompleted())})
		return nil
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) error {
		out, v, err := sess.Hint(r.Context(), chi.URLParam(r, "tier"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, outcomeRes{Outcome: out.String(), Challenge: s.challengeOf(v, sess.AllCompleted())})
		return nil
	})
}

func (s *Server) handleGiveUp(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) error {
		ended, v, err := sess.GiveUp(r.Context(), chi.URLParam(r, "tier"))
		if err != nil {
			return err
		}
		out := "ignored"
		if ended {
			out = "gave_up"
		}
		writeJSON(w, http.StatusOK, outcomeRes{Outcome: out, Challenge: s.challengeOf(v, sess.AllCompleted())})
		return nil
	})
}

type navigateReq struct {
	Index int `json:"index"`
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withSession(w, r, func(sess *game.Session) error {
		moved, v, err := sess.Navigate(r.Context(), chi.URLParam(r, "tier"), req.Index)
		if err != nil {
			return err
		}
		out := "ignored"
		if moved {
			out = "moved"
		}
		writeJSON(w, http.StatusOK, outcomeRes{Outcome: out, Challenge: s.challengeOf(v, sess.AllCompleted())})
		return nil
	})
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, func(sess *game.Session) error {
		text, err := sess.Share(r.Context(), chi.URLParam(r, "tier"))
		if err != nil {
			return err
		}
		writeJSON(w, http.StatusOK, map[string]string{"text": text})
		return nil
	})
}

type commentaryRes struct {
	Ref       string `json:"ref"`
	Chapter   string `json:"chapter"`
	Available bool   `json:"available"`
	Author    string `json:"author,omitempty"`
	Excerpt   string `json:"excerpt,omitempty"`
	ReadMore  string `json:"readMore,omitempty"`
}

// handleCommentary returns the first tafsir entry of the daily verse of a
// completed tier, cut to quranapi.ExcerptLimit characters.
func (s *Server) handleCommentary(w http.ResponseWriter, r *http.Request) {
	var verse corpus.Verse
	ok := false
	s.withSession(w, r, func(sess *game.Session) error {
		v, err := sess.View(r.Context(), chi.URLParam(r, "tier"))
		if err != nil {
			return err
		}
		if !v.Review {
			return game.ErrNotFinished
		}
		verse, ok = v.Challenge.Verse, true
		return nil
	})
	if !ok {
		return
	}
	if s.opts.Commentary == nil {
		writeError(w, http.StatusServiceUnavailable, "commentary_unavailable")
		return
	}

	entries, err := s.opts.Commentary.Commentary(r.Context(), verse.Chapter.Number, verse.NumberInChapter)
	if err != nil {
		log.Warn().Err(err).Str("ref", verse.Key()).Msg("commentary")
		msg := "commentary_unavailable"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "commentary_timeout"
		}
		writeError(w, http.StatusBadGateway, msg)
		return
	}

	res := commentaryRes{Ref: verse.Key(), Chapter: verse.Chapter.EnglishName}
	if len(entries) > 0 {
		res.Available = true
		res.ReadMore = quranapi.ReadMoreURL(verse.Chapter.Number, verse.NumberInChapter)
		res.Author = entries[0].Author
		res.Excerpt = quranapi.Excerpt(entries[0].Content, quranapi.ExcerptLimit)
	}
	writeJSON(w, http.StatusOK, res)
}
