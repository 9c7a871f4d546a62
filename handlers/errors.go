package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

// fail maps an error from the stores or input normalization onto an
// HTTP response. Validation errors carry their own safe message;
// anything unrecognized is logged and reported as a generic 500 so
// store internals never leak to the client.
func fail(c *fiber.Ctx, err error) error {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return respond(c, fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, models.ErrUnauthenticated):
		return respond(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrConflict):
		return respond(c, fiber.StatusConflict, "conflict")
	case errors.Is(err, models.ErrNotFound):
		return respond(c, fiber.StatusNotFound, "not found")
	default:
		log.Printf("handler error: %v", err)
		return respond(c, fiber.StatusInternalServerError, "server error")
	}
}

func respond(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
