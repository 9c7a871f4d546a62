package config

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "github.com/subhrajit77/DoDeck-The-Task-manager/docs"
)

// AddSwaggerRoutes serves the API documentation UI.
func AddSwaggerRoutes(app *fiber.App) {
	app.Get("/swagger/*", swagger.HandlerDefault)
}
