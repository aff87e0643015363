// apps/go-server/internal/httpserver/token.go
//
// Session tokens.
//
// POST /session returns an HS256 JWT whose "sid" claim names the session. Every
// /session/* route requires it, either as "Authorization: Bearer <token>" or
// as a ?token= query parameter (browsers cannot set headers on websockets).

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/play"
)

var errBadToken = errors.New("invalid token")

// signToken creates an HS256 JWT bound to session id.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parseToken validates tok and returns its session id.
func (s *Server) parseToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims,
		func(t *jwt.Token) (interface{}, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return "", errBadToken
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errBadToken
	}
	return sid, nil
}

// bearerOrToken extracts a token from the Authorization header or ?token=.
func bearerOrToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return r.URL.Query().Get("token")
}

// ctxRunnerKey is the context key type for the request's session runner.
type ctxRunnerKey struct{}

func runnerFrom(ctx context.Context) *play.Runner {
	run, _ := ctx.Value(ctxRunnerKey{}).(*play.Runner)
	return run
}

// withSession enforces a valid token and injects the session runner into the
// request context.
func (s *Server) withSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearerOrToken(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			sid, err := s.parseToken(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			run, err := s.store.Get(r.Context(), sid)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxRunnerKey{}, run)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
