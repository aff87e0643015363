// apps/go-server/internal/httpserver/routes_session.go
//
// Token-gated routes acting on the caller's session:
//   - GET    /session        → current render view
//   - POST   /session/letter → tap a bank tile     {"tile": n}
//   - POST   /session/slot   → tap an answer slot  {"slot": n}
//   - POST   /session/hint   → bomb distractor tiles
//   - POST   /session/skip   → reveal the word and move on
//   - POST   /session/pause  → toggle pause
//   - DELETE /session        → quit; stops the clock and drops the session
//
// Every action answers {outcome, events, state}. Late input (between a solved
// word and the next question) answers outcome "none" with 200; input after
// the timer expired answers 409.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
	"github.com/robalobadob/wordbomb/apps/go-server/internal/play"
)

// mountSession registers the /session routes on a router that already runs
// withSession.
func (s *Server) mountSession(r chi.Router) {
	r.Get("/session", s.handleState)
	r.Delete("/session", s.handleQuit)
	r.Post("/session/letter", s.handleLetter)
	r.Post("/session/slot", s.handleSlot)
	r.Post("/session/hint", s.act(func(g *game.Session) (game.Result, error) { return g.Hint() }))
	r.Post("/session/skip", s.act(func(g *game.Session) (game.Result, error) { return g.Skip() }))
	r.Post("/session/pause", s.act(func(g *game.Session) (game.Result, error) { return g.TogglePause() }))
}

type actionRes struct {
	Outcome game.Outcome `json:"outcome"`
	Events  []game.Event `json:"events"`
	State   game.View    `json:"state"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := runnerFrom(r.Context()).Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type tileReq struct {
	Tile *int `json:"tile"`
}

func (s *Server) handleLetter(w http.ResponseWriter, r *http.Request) {
	var req tileReq
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Tile == nil {
		writeError(w, http.StatusBadRequest, "tile is required")
		return
	}
	i := *req.Tile
	s.act(func(g *game.Session) (game.Result, error) { return g.PlaceLetter(i) })(w, r)
}

type slotReq struct {
	Slot *int `json:"slot"`
}

func (s *Server) handleSlot(w http.ResponseWriter, r *http.Request) {
	var req slotReq
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Slot == nil {
		writeError(w, http.StatusBadRequest, "slot is required")
		return
	}
	i := *req.Slot
	s.act(func(g *game.Session) (game.Result, error) { return g.RemoveLetter(i) })(w, r)
}

// act runs one engine call on the session's runner and writes the result.
func (s *Server) act(action play.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, view, err := runnerFrom(r.Context()).Do(r.Context(), action)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		if res.Events == nil {
			res.Events = []game.Event{}
		}
		writeJSON(w, http.StatusOK, actionRes{Outcome: res.Outcome, Events: res.Events, State: view})
	}
}

func (s *Server) handleQuit(w http.ResponseWriter, r *http.Request) {
	run := runnerFrom(r.Context())
	view, err := run.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), run.ID()); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": view.Stats})
}
