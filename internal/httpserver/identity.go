package httpserver

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cookieName = "tadabbur_player"
	// tokenHeader carries a newly issued token for clients without cookies.
	tokenHeader = "X-Player-Token"
)

type ctxPlayerKey struct{}

func playerFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxPlayerKey{}).(string)
	return id
}

// withPlayer resolves the anonymous player from a bearer token or cookie.
// Requests without a valid token get a new identity.
func (s *Server) withPlayer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.parseToken(bearerOrCookie(r))
		if !ok {
			id = uuid.NewString()
			tok, exp, err := s.signToken(id)
			if err != nil {
				log.Error().Err(err).Msg("sign player token")
				writeError(w, http.StatusInternalServerError, "sign_failed")
				return
			}
			s.setPlayerCookie(w, tok, exp)
			w.Header().Set(tokenHeader, tok)
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxPlayerKey{}, id)))
	})
}

// signToken creates an HS256 JWT whose subject is the player ID.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := s.opts.Now()
	exp := now.Add(s.opts.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.opts.Secret)
	return ss, exp, err
}

func (s *Server) parseToken(tok string) (string, bool) {
	if tok == "" {
		return "", false
	}
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return s.opts.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil || !t.Valid {
		return "", false
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func (s *Server) setPlayerCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.opts.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.opts.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// playerLocks hands out one mutex per player, dropped when unused.
type playerLocks struct {
	mu sync.Mutex
	m  map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{m: make(map[string]*playerLock)}
}

func (l *playerLocks) lock(id string) (unlock func()) {
	l.mu.Lock()
	pl, ok := l.m[id]
	if !ok {
		pl = &playerLock{}
		l.m[id] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()
		l.mu.Lock()
		if pl.refs--; pl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
