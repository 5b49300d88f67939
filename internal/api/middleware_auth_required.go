package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, err := handler.authenticateRequest(c)
	if err != nil {
		if !errors.Is(err, services.ErrUnauthenticated) {
			handler.logger.Error("authenticate request", zap.Error(err), zap.String("request_id", requestID(c)))
			return apiError(c, fiber.StatusInternalServerError, "authentication failed")
		}
		return apiError(c, fiber.StatusUnauthorized, services.ErrUnauthenticated.Error())
	}

	c.Locals(contextUserKey, user)
	return c.Next()
}
