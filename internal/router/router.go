package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/registro-go-api/internal/config"
	"github.com/noah-isme/registro-go-api/internal/handler"
	"github.com/noah-isme/registro-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ScheduleHandler *handler.ScheduleHandler
	AdminHandler    *handler.AdminHandler
	ExportHandler   *handler.ExportHandler
	AdminMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.ScheduleHandler != nil {
		activities := api.Group("/activities")
		deps.ScheduleHandler.Register(activities)
	}

	if deps.ExportHandler != nil {
		export := api.Group("/export")
		deps.ExportHandler.Register(export)
	}

	if deps.AdminHandler != nil {
		admin := api.Group("/admin")
		deps.AdminHandler.RegisterPublic(admin)

		adminGuard := deps.AdminMiddleware
		if adminGuard == nil {
			adminGuard = func(c *fiber.Ctx) error { return c.Next() }
		}
		deps.AdminHandler.Register(admin.Group("", adminGuard))
	}
}
