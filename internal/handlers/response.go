package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
)

func ok(c *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail writes the error envelope. Internal errors are logged and their
// details hidden from the client.
func fail(c *fiber.Ctx, err error) error {
	var (
		appErr   *apperrors.Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &appErr):
		status := apperrors.HTTPStatus(appErr.Kind)
		message := appErr.Message
		if appErr.Kind == apperrors.KindInternal {
			slog.ErrorContext(c.UserContext(), "request failed",
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
			message = "Internal server error"
		}
		body := fiber.Map{
			"success": false,
			"message": message,
			"code":    appErr.Kind,
		}
		if len(appErr.Fields) > 0 {
			body["errors"] = appErr.Fields
		}
		return c.Status(status).JSON(body)

	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
			"code":    kindForStatus(fiberErr.Code),
		})

	default:
		slog.ErrorContext(c.UserContext(), "request failed",
			slog.String("path", c.Path()),
			slog.Any("error", err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
			"code":    apperrors.KindInternal,
		})
	}
}

func kindForStatus(status int) apperrors.Kind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperrors.KindValidation
	case fiber.StatusUnauthorized:
		return apperrors.KindUnauthenticated
	case fiber.StatusForbidden:
		return apperrors.KindUnauthorized
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return apperrors.KindNotFound
	case fiber.StatusConflict:
		return apperrors.KindConflict
	default:
		return apperrors.KindInternal
	}
}

// ErrorHandler renders errors returned by middleware and handlers.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return fail(c, err)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid " + name)
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	return nil
}
