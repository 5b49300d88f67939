package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const maxRequestBodyBytes = 64 * 1024

// NewApp builds the Fiber application with middleware and routes installed.
func NewApp(handler *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Nudge",
		DisableStartupMessage: true,
		BodyLimit:             maxRequestBodyBytes,
		ErrorHandler:          handler.errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(requestLogger(handler.logger))

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
