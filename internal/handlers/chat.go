package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/chat"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/validation"
)

type ChatHandler struct {
	Chat     *chat.Service
	Validate *validation.Validator
}

type SendMessageReq struct {
	Text string `json:"text" validate:"notblank,max=2000"`
}

func (h *ChatHandler) List(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}
	msgs, err := h.Chat.ListMessages(c.UserContext(), actor, jobID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", msgs)
}

func (h *ChatHandler) Send(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	jobID, err := paramID(c, "jobId")
	if err != nil {
		return fail(c, err)
	}

	var req SendMessageReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return fail(c, err)
	}

	msg, err := h.Chat.SendMessage(c.UserContext(), actor, jobID, req.Text)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusCreated, "Message sent", msg)
}
