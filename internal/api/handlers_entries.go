package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/models"
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries, err := handler.checkInService.ListEntries(c.UserContext(), user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to fetch entries")
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return c.JSON(fiber.Map{"entries": entries})
}

func (handler *Handler) CheckIn(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := checkInInput{}
	if err := c.BodyParser(&input); err != nil {
		return validationError(c, "task", "invalid input")
	}

	entry, err := handler.checkInService.SubmitCheckIn(c.UserContext(), user.ID, input.Task)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to create check-in")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"entry": entry})
}

func (handler *Handler) CompleteEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entryID, err := parseEntryID(c.Params("id"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid entry id")
	}

	entry, err := handler.checkInService.CompleteEntry(c.UserContext(), entryID, user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to mark entry as completed")
	}
	return c.JSON(fiber.Map{"entry": entry})
}

func parseEntryID(raw string) (uint, error) {
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(value), nil
}
