package handlers

import "github.com/gofiber/fiber/v2"

// HandleHealthCheck reports liveness.
func HandleHealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}
