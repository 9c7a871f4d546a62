package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/subhrajit77/DoDeck-The-Task-manager/config"
	"github.com/subhrajit77/DoDeck-The-Task-manager/database"
	"github.com/subhrajit77/DoDeck-The-Task-manager/handlers"
	"github.com/subhrajit77/DoDeck-The-Task-manager/middleware"
	"github.com/subhrajit77/DoDeck-The-Task-manager/router"
)

// SetupAndRunApp wires the whole server together: config, database,
// Fiber app with its middleware stack, routes, swagger, and finally the
// listener.
func SetupAndRunApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := database.StartPostgreSQL(cfg.PostgresURI); err != nil {
		return err
	}
	defer database.ClosePostgreSQL()

	users := database.NewUsers(database.GetDB())
	tasks := database.NewTasks(database.GetDB())
	events := handlers.NewEventHub()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${ip}]:${port} ${status} - ${method} ${path} ${latency}\n",
	}))

	protect := middleware.Protected(cfg, users)
	authHandler := handlers.NewAuthHandler(cfg, users)
	taskHandler := handlers.NewTaskHandler(tasks, events)

	router.SetupRoutes(app, protect, authHandler, taskHandler, events)

	config.AddSwaggerRoutes(app)

	return app.Listen(":" + cfg.Port)
}
