// internal/realtime/hub.go
package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

type Client struct {
	ID     string
	UserID uuid.UUID
	Send   chan []byte
}

func NewClient(userID uuid.UUID) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Send:   make(chan []byte, 256),
	}
}

// Hub tracks the websocket clients connected to this instance.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) RegisterClient(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.Send)
	}
}

func (h *Hub) UnregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// SendToUser queues payload on every connection of userID. Slow clients
// drop the message instead of blocking the hub.
func (h *Hub) SendToUser(userID uuid.UUID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients {
		if client.UserID != userID {
			continue
		}
		select {
		case client.Send <- payload:
			delivered++
		default:
			h.log.Warn("websocket send buffer full", slog.String("client_id", client.ID))
		}
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Run serves register/unregister until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			h.log.Debug("websocket client registered", slog.String("client_id", client.ID), slog.String("user_id", client.UserID.String()))

		case client := <-h.unregister:
			h.mu.Lock()
			if old, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(old.Send)
			}
			h.mu.Unlock()
			h.log.Debug("websocket client unregistered", slog.String("client_id", client.ID))

		case <-ctx.Done():
			close(h.quit)
			h.mu.Lock()
			for id, client := range h.clients {
				close(client.Send)
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return
		}
	}
}
