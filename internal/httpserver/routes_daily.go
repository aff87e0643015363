// apps/go-server/internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode:
//   - GET  /daily         → today's date key
//   - POST /daily/session → start a session seeded from today's date
//
// A daily session is an ordinary session whose RNG is seeded from
// HMAC(DAILY_SALT, date), so every player of the same date gets the same
// question and letter-bank sequence (as long as they take the same path
// through the rounds). Level is always 1; duration and language are the
// player's choice.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDailyInfo)
	r.Post("/daily/session", s.handleDailySession)
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"date": daily.DateKey(s.now())})
}

func (s *Server) handleDailySession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if !decodeBody(w, r, &req) {
		return
	}
	req.Level = 1
	now := s.now()
	res, err := s.startSession(r.Context(), req.settings(), daily.Rand(now, s.cfg.DailySalt))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"date":      daily.DateKey(now),
		"sessionId": res.SessionID,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"state":     res.State,
	})
}
