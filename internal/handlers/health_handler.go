package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	// Checks run on every request; any failure reports 503.
	Checks map[string]func(ctx context.Context) error
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	results := fiber.Map{}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			status = fiber.StatusServiceUnavailable
			results[name] = err.Error()
			continue
		}
		results[name] = "ok"
	}

	return c.Status(status).JSON(fiber.Map{
		"success": status == fiber.StatusOK,
		"message": "health",
		"data":    results,
	})
}
