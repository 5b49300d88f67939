package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/services"
)

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	settings, err := handler.settingsService.Get(c.UserContext(), user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to fetch settings")
	}
	return c.JSON(fiber.Map{"settings": settings})
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	update := services.SettingsUpdate{}
	if err := c.BodyParser(&update); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid settings data")
	}

	settings, err := handler.settingsService.Update(c.UserContext(), user.ID, update)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to update settings")
	}
	return c.JSON(fiber.Map{"settings": settings})
}
