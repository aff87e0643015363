// apps/go-server/internal/httpserver/ws.go
//
// GET /session/events upgrades to a websocket and streams the session's
// events as JSON text frames, starting with a {"kind":"state"} frame that
// carries the current view. The stream ends (close frame 1000) when the
// session is over or removed. Client frames are read only to observe
// disconnects and control frames.

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordbomb/apps/go-server/internal/game"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

type stateFrame struct {
	Kind  string    `json:"kind"`
	State game.View `json:"state"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	run := runnerFrom(r.Context())
	events, cancel, err := run.Subscribe(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cancel()
	view, err := run.Snapshot(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("websocket upgrade")
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	write := func(v any) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(v) == nil
	}
	if !write(stateFrame{Kind: "state", State: view}) {
		return
	}
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended")
				_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait))
				return
			}
			if !write(ev) {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}
