package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

// Event is the frame pushed to websocket clients for a stored notification.
type Event struct {
	Type string              `json:"type"`
	Data models.Notification `json:"data"`
}

type frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Notifier persists a notification and fans it out. With a redis client the
// event goes through pub/sub so every instance sees it; without one it is
// handed straight to the local hub.
type Notifier struct {
	repo repository.NotificationRepository
	rdb  *redis.Client
	hub  *Hub
	log  *slog.Logger
}

func NewNotifier(repo repository.NotificationRepository, rdb *redis.Client, hub *Hub, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{repo: repo, rdb: rdb, hub: hub, log: log}
}

func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	notif := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Payload: datatypes.JSON(raw),
	}
	if err := n.repo.Create(ctx, notif); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	return n.publish(ctx, userID, Event{Type: kind, Data: *notif})
}

// Push delivers a live frame without storing a notification.
func (n *Notifier) Push(ctx context.Context, userID uuid.UUID, kind string, data any) error {
	return n.publish(ctx, userID, frame{Type: kind, Data: data})
}

func (n *Notifier) publish(ctx context.Context, userID uuid.UUID, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if n.rdb != nil {
		if err := n.rdb.Publish(ctx, NotificationChannel(userID), raw).Err(); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
		return nil
	}
	if n.hub != nil {
		n.hub.SendToUser(userID, raw)
	}
	return nil
}
