package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/services/account"
)

type AuthHandler struct {
	Accounts     *account.Service
	Expires      int
	CookieSecure bool
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req account.RegisterInput
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess, err := h.Accounts.Register(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, sess.Token)
	return ok(c, fiber.StatusCreated, "Registration successful", sess)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}

	sess, err := h.Accounts.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, err)
	}

	h.setSessionCookie(c, sess.Token)
	return ok(c, fiber.StatusOK, "Login successful", sess)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.CookieSecure,
		SameSite: "Lax",
	})
	return ok(c, fiber.StatusOK, "Logged out", nil)
}
