package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dgallion1/typeordie/internal/round"
)

const (
	wsReadLimit  = 4096
	wsWriteWait  = 10 * time.Second
	wsIdleExpiry = 5 * time.Minute
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wsMessage is what the server sends for every client message.
type wsMessage struct {
	Type  string          `json:"type"` // "round" or "error"
	Round *round.Snapshot `json:"round,omitempty"`
	Error string          `json:"error,omitempty"`
}

// handleRoundWS upgrades to a WebSocket. The server sends the current
// round on connect; every text message after that is applied as keys and
// answered with the new round state.
func (s *Server) handleRoundWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	log := s.log.With("remote", r.RemoteAddr)
	log.Debug("websocket connected")

	conn.SetReadLimit(wsReadLimit)
	snap := s.rounds.Snapshot()
	if err := writeWS(conn, wsMessage{Type: "round", Round: &snap}); err != nil {
		return
	}

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleExpiry))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket unexpected close", "error", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		msg := wsMessage{Type: "round"}
		if snap, err := s.rounds.Keys(string(data)); err != nil {
			msg = wsMessage{Type: "error", Error: err.Error()}
		} else {
			msg.Round = &snap
		}
		if err := writeWS(conn, msg); err != nil {
			log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func writeWS(conn *websocket.Conn, msg wsMessage) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
