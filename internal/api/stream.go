package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/litescript/ls-galilean/internal/ephem"
	"github.com/litescript/ls-galilean/internal/export"
	"github.com/litescript/ls-galilean/internal/metrics"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	minStreamInterval = 250 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /api/v1/stream?interval=5s
//
// Pushes a system snapshot frame immediately and then once per interval
// until the client goes away or the server shuts down.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	interval := s.opts.StreamInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < minStreamInterval {
			writeError(w, http.StatusBadRequest, "invalid interval parameter, minimum is 250ms")
			return
		}
		interval = d
	}

	ip := clientIP(r)
	if !s.streams.acquire(ip) {
		writeError(w, http.StatusTooManyRequests, "too many concurrent streams")
		return
	}
	defer s.streams.release(ip)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.logger.Debug("stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	// The read pump only services control frames and notices disconnects.
	gone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	send := func() error {
		frame := export.System(ephem.Compute(s.opts.Now()), s.opts.RedSpot)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(frame)
	}

	if err := send(); err != nil {
		return
	}
	for {
		select {
		case <-ticker.C:
			if err := send(); err != nil {
				s.logger.Debug("stream write failed: %v", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			return
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		}
	}
}
