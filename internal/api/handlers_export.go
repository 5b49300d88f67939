package api

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/nudge/internal/services"
)

const exportCSVFilename = "nudge-data.csv"

func (handler *Handler) Export(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	input := exportInput{}
	if len(bytes.TrimSpace(c.Body())) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return validationError(c, "format", "invalid format, use 'json' or 'csv'")
		}
	}

	format, err := services.ParseExportFormat(input.Format)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to export data")
	}

	if format == services.ExportFormatCSV {
		return handler.exportCSV(c, user.ID)
	}

	document, err := handler.exportService.BuildDocument(c.UserContext(), user.ID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to export data")
	}
	return c.JSON(fiber.Map{"data": document})
}

func (handler *Handler) exportCSV(c *fiber.Ctx, userID uint) error {
	rows, err := handler.exportService.BuildCSVRows(c.UserContext(), userID)
	if err != nil {
		return handler.respondServiceError(c, err, "failed to export data")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return handler.respondServiceError(c, err, "failed to build export")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return handler.respondServiceError(c, err, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", exportCSVFilename)
	return c.Send(output.Bytes())
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
