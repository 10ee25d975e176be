package realtime

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const notificationChannelPrefix = "notifications:"

func NotificationChannel(userID uuid.UUID) string {
	return notificationChannelPrefix + userID.String()
}

func NewRedis(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Subscribe forwards every message published on notifications:* to the local
// clients of the addressed user. It returns when ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, rdb *redis.Client) {
	pubsub := rdb.PSubscribe(ctx, notificationChannelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.dispatch(msg.Channel, []byte(msg.Payload))
		}
	}
}

func (h *Hub) dispatch(channel string, payload []byte) {
	userID, err := uuid.Parse(strings.TrimPrefix(channel, notificationChannelPrefix))
	if err != nil {
		h.log.Warn("ignoring message on unexpected channel", slog.String("channel", channel))
		return
	}
	h.SendToUser(userID, payload)
}
