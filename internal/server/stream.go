package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	streamBuffer = 4
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
)

// handleStream upgrades to a websocket and pushes every published snapshot
// as a JSON text message, starting with the current one. Slow clients miss
// snapshots rather than holding up the sampler.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	s.trackStream(conn, true)
	defer s.trackStream(conn, false)
	defer conn.Close()

	snaps, cancel := s.sampler.Subscribe(streamBuffer)
	defer cancel()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Info("stream client connected", "remote", r.RemoteAddr)
	defer s.logger.Info("stream client disconnected", "remote", r.RemoteAddr)

	if snap := s.sampler.CurrentSnapshot(); snap != nil {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-snaps:
			if !ok {
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				s.logger.Debug("stream write failed", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (s *Server) trackStream(conn *websocket.Conn, open bool) {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	if open {
		s.streams[conn] = struct{}{}
	} else {
		delete(s.streams, conn)
	}
}

// StreamCount returns the number of connected stream clients.
func (s *Server) StreamCount() int {
	s.streamsMu.Lock()
	defer s.streamsMu.Unlock()
	return len(s.streams)
}
