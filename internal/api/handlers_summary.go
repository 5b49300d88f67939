package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) GetSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.summaryService.GetOrCreateWeeklySummary(c.UserContext(), user.ID, handler.now())
	if err != nil {
		return handler.respondServiceError(c, err, "failed to fetch weekly summary")
	}
	return c.JSON(fiber.Map{"summary": summary})
}
