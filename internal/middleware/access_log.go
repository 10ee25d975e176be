package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func AccessLog(log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := StatusOf(c, err)
		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if rid, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
			attrs = append(attrs, slog.String("request_id", rid))
		}
		if actor, ok := ActorFrom(c); ok {
			attrs = append(attrs, slog.String("user_id", actor.ID.String()))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", attrs...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", attrs...)
		default:
			log.Info("request", attrs...)
		}
		return err
	}
}
