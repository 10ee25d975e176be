package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/realtime"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/notification"
)

type NotificationHandler struct {
	Notifications *notification.Service
	Hub           *realtime.Hub
	JWTSecret     string
	Resolver      middleware.ActorResolver
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	list, err := h.Notifications.List(c.UserContext(), actor, c.QueryBool("unread"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", list)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	id, err := paramID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.Notifications.MarkRead(c.UserContext(), actor, id); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Notification marked as read", fiber.Map{})
}

// Upgrade authenticates the websocket handshake. Browsers cannot set headers
// on websocket requests, so a token query parameter is accepted here.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := middleware.TokenFromRequest(c)
	if token == "" {
		token = c.Query("token")
	}
	actor, err := middleware.ActorFromToken(c.UserContext(), h.JWTSecret, token, h.Resolver)
	if err != nil {
		return fail(c, err)
	}
	middleware.SetActor(c, actor)
	return c.Next()
}

func (h *NotificationHandler) Stream() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, err := uuidFromLocals(conn.Locals("userId"))
		if err != nil {
			_ = conn.Close()
			return
		}
		h.Hub.Serve(conn, realtime.NewClient(userID))
	})
}

func uuidFromLocals(v interface{}) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.Nil, errors.New("missing user id")
	}
	return uuid.Parse(s)
}
