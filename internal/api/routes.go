package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	registerAPIRoutes(app, handler)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	api.Get("/entries", handler.AuthRequired, handler.ListEntries)
	api.Post("/check-in", handler.AuthRequired, handler.CheckIn)
	api.Patch("/entries/:id/complete", handler.AuthRequired, handler.CompleteEntry)

	api.Get("/summary", handler.AuthRequired, handler.GetSummary)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Patch("", handler.UpdateSettings)

	api.Post("/export", handler.AuthRequired, handler.Export)
}
