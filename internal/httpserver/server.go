// internal/httpserver/server.go
//
// HTTP server wiring for the Tadabbur backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/tiers", "/chapters".
//   - Player endpoints (anonymous identity): /challenge/{tier}/*, /stats.
//   - Leaderboard: /daily/leaderboard.
//
// Notes:
//   - Every request from the same player runs under that player's lock; a
//     fresh game.Session is loaded from the record store, mutated, saved.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tadabbur/internal/challenge"
	"github.com/robalobadob/tadabbur/internal/daily"
	"github.com/robalobadob/tadabbur/internal/game"
	"github.com/robalobadob/tadabbur/internal/quranapi"
	"github.com/robalobadob/tadabbur/internal/store"
)

// Commentator fetches verse commentary. *quranapi.Client implements it.
type Commentator interface {
	Commentary(ctx context.Context, chapter, verse int) ([]quranapi.Commentary, error)
}

// Options configure a Server. Builder, Store and Secret are required.
type Options struct {
	Builder    *challenge.Builder
	Store      store.Store
	Results    *daily.Store // optional; enables the leaderboard
	Commentary Commentator  // optional
	Secret     []byte
	TokenTTL   time.Duration
	Origin     string
	Secure     bool // production cookies
	Now        func() time.Time
}

// Server bundles the router and the game dependencies.
type Server struct {
	r     *chi.Mux
	opts  Options
	locks *playerLocks
}

// New constructs a Server, installs middleware, and registers routes.
func New(o Options) *Server {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TokenTTL <= 0 {
		o.TokenTTL = 180 * 24 * time.Hour
	}
	if o.Origin == "" {
		o.Origin = "http://localhost:5173"
	}
	s := &Server{r: chi.NewRouter(), opts: o, locks: newPlayerLocks()}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(15 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(cors(o.Origin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"tadabbur","endpoints":["/health","/tiers","/chapters","/challenge/{tier}","/stats","/daily/leaderboard"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ix := o.Builder.Index()
		verses := 0
		if ix != nil {
			verses = ix.Len()
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "corpus": ix != nil, "verses": verses})
	})

	s.r.Get("/tiers", s.handleTiers)
	s.r.Get("/chapters", s.handleChapters)

	s.r.Group(func(r chi.Router) {
		r.Use(s.withPlayer)
		s.mountChallenge(r)
		r.Get("/stats", s.handleStats)
	})
	s.mountDaily(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", tokenHeader)
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------- sessions ----------------------------------

// withSession runs fn on the requesting player's session under the player's
// lock. Errors from fn are mapped to HTTP responses.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, fn func(*game.Session) error) {
	player := playerFrom(r.Context())
	unlock := s.locks.lock(player)
	defer unlock()

	opts := game.Options{Player: player, Builder: s.opts.Builder, Store: s.opts.Store, Now: s.opts.Now}
	if s.opts.Results != nil {
		opts.Results = s.opts.Results
	}
	sess, err := game.NewSession(r.Context(), opts)
	if err != nil {
		log.Error().Err(err).Str("player", player).Msg("load session")
		writeError(w, http.StatusInternalServerError, "load_failed")
		return
	}
	if err := fn(sess); err != nil {
		writeGameError(w, err)
	}
}

// ------------------------------- responses ---------------------------------

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeGameError maps engine errors onto status codes.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, challenge.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable")
	case errors.Is(err, game.ErrUnknownTier):
		writeError(w, http.StatusNotFound, "unknown_tier")
	case errors.Is(err, game.ErrInvalidChapter):
		writeError(w, http.StatusBadRequest, "invalid_chapter")
	case errors.Is(err, game.ErrNotFinished):
		writeError(w, http.StatusConflict, "not_finished")
	default:
		log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}
