package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Felixnganga-max/kamson/internal/handlers"
	"github.com/Felixnganga-max/kamson/internal/middleware"
)

type Deps struct {
	Events *handlers.EventHandler
	Media  *handlers.MediaHandler
	Auth   *handlers.AuthHandler
	Verify middleware.TokenVerifier
}

// Register mounts the whole API surface under /api. Callers attach
// boundary middleware (rate limiter, CORS, ...) to the group before
// routes resolve.
func Register(app *fiber.App, api fiber.Router, d Deps) {
	events := api.Group("/events")
	events.Get("/", d.Events.List)
	events.Post("/", d.Events.Create)
	events.Get("/:id", d.Events.GetByID)
	events.Patch("/:id", d.Events.Update)
	events.Delete("/:id", d.Events.Delete)

	media := api.Group("/media")
	media.Post("/upload", d.Media.Upload)
	media.Get("/", d.Media.List)
	media.Delete("/:id", d.Media.Delete)

	auth := api.Group("/auth")
	auth.Post("/register", d.Auth.Register)
	auth.Post("/login", d.Auth.Login)
	auth.Get("/user", middleware.Protect(d.Verify), d.Auth.CurrentUser)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Server is running healthy",
		})
	})

	app.Use(handlers.NotFound)
}
