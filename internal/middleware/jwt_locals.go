package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const localActor = "actor"

func SetActor(c *fiber.Ctx, actor models.Actor) {
	c.Locals(localActor, actor)
	c.Locals("userId", actor.ID.String())
	c.Locals("role", string(actor.Role))
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c *fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(localActor).(models.Actor)
	return actor, ok
}
