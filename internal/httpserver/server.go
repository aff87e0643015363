// apps/go-server/internal/httpserver/server.go
//
// HTTP server wiring for the word-bomb backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs,
//     access logging).
//   - Public endpoints: "/", "/health", "/debug/words", "/rank".
//   - Session creation: POST /session and POST /daily/session.
//   - Token-gated session endpoints under /session (see routes_session.go).
//   - Event streaming over a websocket: GET /session/events (see ws.go).
//
// Notes:
//   - Each session runs on its own play.Runner; handlers only ever talk to the
//     runner, never to the game.Session directly.
//   - The websocket route is mounted outside the Timeout middleware so that
//     long-lived streams are not cut after the request deadline.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/config"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/play"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/store"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/words"
)

// Server bundles router, session store, word catalog and configuration.
type Server struct {
	r        *chi.Mux
	store    store.Store
	words    *words.Catalog
	cfg      config.Config
	upgrader websocket.Upgrader
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, st store.Store, cat *words.Catalog) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		words: cat,
		cfg:   cfg,
		now:   time.Now,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.allowOrigin}

	// --- middleware ---
	s.r.Use(chimw.RequestID)               // add X-Request-ID
	s.r.Use(chimw.RealIP)                  // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(hlog.NewHandler(log.Logger))   // request-scoped logger
	s.r.Use(hlog.AccessHandler(accessLog)) // one line per request
	s.r.Use(chimw.Recoverer)               // recover from panics
	s.r.Use(cors(cfg.ClientOrigin))        // single-origin CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"wordbomb-go","endpoints":["/health","/rank","POST /session","POST /daily/session","/session/*"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.store.Len()})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, s.words.Stats())
		})
		r.Get("/rank", s.handleRank)

		r.Post("/session", s.handleNewSession)
		s.mountDaily(r)
		s.mountSession(r.With(s.withSession()))

		// JSON 404 for easier debugging
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	s.r.With(s.withSession()).Get("/session/events", s.handleEvents)

	return s
}

// Router exposes the internal router; serve mounts it on an http.Server.
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin. Tokens travel in the Authorization
// header, so credentials are not needed.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog(r *http.Request, status, size int, d time.Duration) {
	hlog.FromRequest(r).Debug().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", d).
		Msg("request")
}

func (s *Server) allowOrigin(r *http.Request) bool {
	o := r.Header.Get("Origin")
	return o == "" || o == s.cfg.ClientOrigin
}

// ------------------------------ public -------------------------------------

// handleRank maps a cumulative word count to a career rank.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("words"))
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, "words must be a non-negative integer")
		return
	}
	writeJSON(w, http.StatusOK, game.RankFor(n))
}

// ------------------------------ sessions -----------------------------------

type newSessionReq struct {
	DurationSeconds int    `json:"durationSeconds"`
	Level           int    `json:"level"`
	Language        string `json:"language"`
}

// settings applies defaults for omitted fields.
func (req newSessionReq) settings() game.Settings {
	st := game.Settings{
		DurationSeconds: req.DurationSeconds,
		Level:           req.Level,
		Language:        words.Language(req.Language),
	}
	if st.DurationSeconds == 0 {
		st.DurationSeconds = 60
	}
	if st.Level == 0 {
		st.Level = 1
	}
	if st.Language == "" {
		st.Language = words.English
	}
	return st
}

type sessionRes struct {
	SessionID string    `json:"sessionId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	State     game.View `json:"state"`
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.startSession(r.Context(), req.settings(), newRand())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// startSession creates a session, starts its runner, registers it and issues
// a token bound to it.
func (s *Server) startSession(ctx context.Context, st game.Settings, rng *rand.Rand) (sessionRes, error) {
	sess, err := game.NewSession(s.cfg.Game(), st, s.words, rng)
	if err != nil {
		return sessionRes{}, err
	}
	run := play.Start(sess, play.Options{
		TickInterval: s.cfg.TickInterval,
		AdvanceDelay: s.cfg.AdvanceDelay,
		OnOver:       s.retire,
	})
	if err := s.store.Save(ctx, run); err != nil {
		run.Stop()
		return sessionRes{}, err
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		_ = s.store.Delete(context.Background(), sess.ID)
		return sessionRes{}, err
	}
	view, err := run.Snapshot(ctx)
	if err != nil {
		return sessionRes{}, err
	}
	log.Info().
		Str("sessionId", sess.ID).
		Int("duration", st.DurationSeconds).
		Int("level", st.Level).
		Str("language", string(st.Language)).
		Msg("session started")
	return sessionRes{SessionID: sess.ID, Token: tok, ExpiresAt: exp, State: view}, nil
}

// retire drops a finished session once the retention window has passed, so
// clients can still fetch the final state for a while.
func (s *Server) retire(id string, _ game.Stats) {
	time.AfterFunc(s.cfg.FinishedRetention, func() {
		if err := s.store.Delete(context.Background(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Warn().Err(err).Str("sessionId", id).Msg("retire session")
		}
	})
}

// ------------------------------- helpers -----------------------------------

// newRand returns an independently seeded generator for one session.
func newRand() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes an optional JSON body into v. An empty body leaves v
// untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return false
	}
	return true
}

// fail maps a domain error to a status code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, game.ErrInvalidSettings):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrNotFound), errors.Is(err, play.ErrStopped):
		status, msg = http.StatusNotFound, "session_not_found"
	case errors.Is(err, game.ErrSessionOver):
		status, msg = http.StatusConflict, "session_over"
	case errors.Is(err, game.ErrNotStarted):
		status, msg = http.StatusConflict, "session_not_started"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status, msg = http.StatusServiceUnavailable, "timeout"
	}
	if status == http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, msg)
}
