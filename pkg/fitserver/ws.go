package fitserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/evefit/fitcalc/pkg/fitsession"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
	wsPongWait   = 60 * time.Second
	wsSendBuffer = 16
)

// handleWebSocket implements GET /fits/{fitID}/ws: upgrades the connection
// and streams invalidatedEvent messages for that fit until the client
// disconnects (spec's fitserver entry).
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	fitID := chi.URLParam(r, "fitID")
	hf, ok := s.lookupHosted(fitID)
	if !ok {
		writeError(w, http.StatusNotFound, fitsession.ErrNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("fitserver: websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{conn: conn, send: make(chan []byte, wsSendBuffer)}
	hf.addClient(client)

	go s.wsWritePump(hf, client)
	s.wsReadPump(hf, client)
}

// wsReadPump discards client messages (this connection is push-only) but
// must keep reading to notice the connection closing and to service
// pong replies for the heartbeat.
func (s *Server) wsReadPump(hf *hostedFit, c *wsClient) {
	defer func() {
		hf.removeClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) wsWritePump(hf *hostedFit, c *wsClient) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
