// internal/realtime/websocket.go
package realtime

import (
	"log/slog"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Serve pumps hub messages to conn until either side goes away. It blocks
// for the lifetime of the connection.
func (h *Hub) Serve(conn *websocket.Conn, client *Client) {
	h.RegisterClient(client)
	defer h.UnregisterClient(client)

	done := make(chan struct{})
	go h.writePump(conn, client, done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// inbound frames carry nothing; reading keeps pong handling alive
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debug("websocket closed", slog.String("user_id", client.UserID.String()), slog.Any("error", err))
			break
		}
	}
	close(done)
}

func (h *Hub) writePump(conn *websocket.Conn, client *Client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.log.Debug("websocket write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
