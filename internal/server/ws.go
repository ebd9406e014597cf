package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hazz-dev/svcdeck/internal/board"
	"github.com/hazz-dev/svcdeck/internal/logger"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsBuffer     = 64
)

var upgrader = websocket.Upgrader{
	// The dashboard is usually opened by LAN address or hostname.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message types sent on /api/ws.
const (
	MessageSnapshot = "snapshot"
	MessageService  = "service"
)

// Message is one websocket frame. Snapshot frames carry every service;
// service frames carry the row that changed.
type Message struct {
	Type     string              `json:"type"`
	Services []board.FlatService `json:"services,omitempty"`
	Service  *board.FlatService  `json:"service,omitempty"`
	Summary  Summary             `json:"summary"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", logger.Error(err))
		return
	}
	defer conn.Close()

	// Subscribe before the snapshot so no change slips between them.
	changes, cancel := s.board.Subscribe(wsBuffer)
	defer cancel()

	s.logger.Debug("websocket client connected", logger.String("remote_ip", r.RemoteAddr))

	snapshot := s.board.Snapshot()
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := conn.WriteJSON(Message{
		Type:     MessageSnapshot,
		Services: snapshot,
		Summary:  s.summary(board.TallyOf(snapshot)),
	}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongWait))
		})
		// Clients never send anything meaningful; read until they go away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			s.logger.Debug("websocket client disconnected", logger.String("remote_ip", r.RemoteAddr))
			return
		case <-r.Context().Done():
			return
		case entry, ok := <-changes:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(Message{
				Type:    MessageService,
				Service: &entry,
				Summary: s.summary(s.board.Tally()),
			}); err != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
