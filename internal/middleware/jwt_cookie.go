package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/utils"
)

const CookieName = "jm_token"

// ActorResolver turns a token subject into the current actor.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (models.Actor, error)
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *fiber.Ctx) string {
	if tok := c.Cookies(CookieName); tok != "" {
		return tok
	}
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate verifies the token and stores the resolved actor in locals.
func Authenticate(secret string, resolver ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := ActorFromToken(c.UserContext(), secret, TokenFromRequest(c), resolver)
		if err != nil {
			return err
		}
		SetActor(c, actor)
		return c.Next()
	}
}

func ActorFromToken(ctx context.Context, secret, token string, resolver ActorResolver) (models.Actor, error) {
	if token == "" {
		return models.Actor{}, apperrors.Unauthenticated("Authentication required")
	}
	claims, err := utils.ParseJWT(secret, token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Actor{}, apperrors.Unauthenticated("Token has expired")
		}
		return models.Actor{}, apperrors.Unauthenticated("Invalid token")
	}
	return resolver.ResolveActor(ctx, claims.UserID)
}
