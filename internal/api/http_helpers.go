package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func validationError(c *fiber.Ctx, field string, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message, "field": field})
}

// respondServiceError maps the service error taxonomy onto HTTP responses.
// fallback is the client-facing message for unexpected failures.
func (handler *Handler) respondServiceError(c *fiber.Ctx, err error, fallback string) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return validationError(c, validation.Field, validation.Message)
	case errors.Is(err, services.ErrInvalidCredentials):
		return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, services.ErrUnauthenticated):
		return apiError(c, fiber.StatusUnauthorized, services.ErrUnauthenticated.Error())
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found")
	case errors.Is(err, services.ErrConflict):
		return apiError(c, fiber.StatusConflict, "user already exists")
	}

	handler.logger.Error(fallback,
		zap.Error(err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("request_id", requestID(c)),
	)
	return apiError(c, fiber.StatusInternalServerError, fallback)
}

// errorHandler renders errors that escape handlers, including unknown routes.
func (handler *Handler) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = strings.ToLower(fiberErr.Message)
	} else {
		handler.logger.Error("unhandled request error", zap.Error(err), zap.String("path", c.Path()), zap.String("request_id", requestID(c)))
	}
	return apiError(c, status, message)
}
