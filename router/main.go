package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/subhrajit77/DoDeck-The-Task-manager/handlers"
)

// SetupRoutes registers the public identity routes and the protected
// task surface. protect is the auth gate middleware built in app setup.
func SetupRoutes(app *fiber.App, protect fiber.Handler, auth *handlers.AuthHandler, tasks *handlers.TaskHandler, events *handlers.EventHub) {
	app.Get("/health", handlers.HandleHealthCheck)

	user := app.Group("/api/user")
	user.Post("/register", auth.Register)
	user.Post("/login", auth.Login)
	user.Get("/me", protect, auth.Me)
	user.Put("/profile", protect, auth.UpdateProfile)
	user.Put("/password", protect, auth.ChangePassword)

	api := app.Group("/api", protect)
	api.Get("/tasks", tasks.List)
	api.Post("/tasks", tasks.Create)
	api.Get("/tasks/:id", tasks.Get)
	api.Put("/tasks/:id", tasks.Update)
	api.Delete("/tasks/:id", tasks.Delete)
	api.Get("/events", events.Stream)
}
