package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/account"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/marketplace"
)

type UserHandler struct {
	Accounts *account.Service
	Market   *marketplace.Service
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	u, err := h.Accounts.GetProfile(c.UserContext(), actor)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", u)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)

	var req account.ProfileInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	u, err := h.Accounts.UpdateProfile(c.UserContext(), actor, req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Profile updated", u)
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	users, err := h.Market.ListUsers(c.UserContext(), actor)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "OK", users)
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	userID, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	if err := h.Market.DeleteUser(c.UserContext(), actor, userID); err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "User deleted", fiber.Map{})
}

func (h *UserHandler) ToggleBan(c *fiber.Ctx) error {
	actor, _ := middleware.ActorFrom(c)
	userID, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	banned, err := h.Market.ToggleBan(c.UserContext(), actor, userID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, fiber.StatusOK, "Ban status updated", fiber.Map{"banned": banned})
}
