package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

// RequireRoles is a coarse route gate; services still apply the full policy.
func RequireRoles(allowed ...models.Role) fiber.Handler {
	allowedSet := map[models.Role]bool{}
	for _, r := range allowed {
		allowedSet[r] = true
	}

	return func(c *fiber.Ctx) error {
		actor, ok := ActorFrom(c)
		if !ok {
			return apperrors.Unauthenticated("Authentication required")
		}
		if !allowedSet[actor.Role] {
			return apperrors.Unauthorized("Insufficient role")
		}
		return c.Next()
	}
}
