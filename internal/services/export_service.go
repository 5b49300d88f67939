package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/nudge/internal/models"
)

type ExportFormat string

const (
	ExportFormatJSON ExportFormat = "json"
	ExportFormatCSV  ExportFormat = "csv"
)

var ExportCSVHeaders = []string{"id", "date", "task", "aiResponse", "completed"}

type ExportUserReader interface {
	FindByID(ctx context.Context, userID uint) (models.User, bool, error)
}

type ExportEntryReader interface {
	ListByUserRange(ctx context.Context, userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error)
}

type ExportSummaryReader interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Summary, error)
}

type ExportService struct {
	users     ExportUserReader
	entries   ExportEntryReader
	summaries ExportSummaryReader
	settings  SettingsRepository
	now       func() time.Time
}

type ExportDocument struct {
	ExportedAt time.Time        `json:"exportedAt"`
	User       models.User      `json:"user"`
	Entries    []models.Entry   `json:"entries"`
	Summaries  []models.Summary `json:"summaries"`
	Settings   models.Setting   `json:"settings"`
}

type ExportCSVRow struct {
	ID         uint
	Date       string
	Task       string
	AIResponse string
	Completed  bool
}

func NewExportService(users ExportUserReader, entries ExportEntryReader, summaries ExportSummaryReader, settings SettingsRepository) *ExportService {
	return &ExportService{
		users:     users,
		entries:   entries,
		summaries: summaries,
		settings:  settings,
		now:       time.Now,
	}
}

// ParseExportFormat defaults an empty value to JSON.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatJSON:
		return ExportFormatJSON, nil
	case ExportFormatCSV:
		return ExportFormatCSV, nil
	default:
		return "", newValidationError("format", "invalid format, use 'json' or 'csv'")
	}
}

func (service *ExportService) BuildDocument(ctx context.Context, userID uint) (ExportDocument, error) {
	user, found, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return ExportDocument{}, storageError("find user", err)
	}
	if !found {
		return ExportDocument{}, ErrNotFound
	}

	entries, err := service.entries.ListByUserRange(ctx, userID, nil, nil)
	if err != nil {
		return ExportDocument{}, storageError("list entries", err)
	}

	summaries, err := service.summaries.ListByUser(ctx, userID)
	if err != nil {
		return ExportDocument{}, storageError("list summaries", err)
	}

	setting, err := service.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return ExportDocument{}, storageError("load settings", err)
	}

	return ExportDocument{
		ExportedAt: service.now().UTC(),
		User:       user,
		Entries:    entries,
		Summaries:  summaries,
		Settings:   setting,
	}, nil
}

// BuildCSVRows returns one row per entry, oldest first.
func (service *ExportService) BuildCSVRows(ctx context.Context, userID uint) ([]ExportCSVRow, error) {
	entries, err := service.entries.ListByUserRange(ctx, userID, nil, nil)
	if err != nil {
		return nil, storageError("list entries", err)
	}

	rows := make([]ExportCSVRow, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, ExportCSVRow{
			ID:         entry.ID,
			Date:       entry.Date.UTC().Format(time.RFC3339),
			Task:       entry.Task,
			AIResponse: entry.AIResponse,
			Completed:  entry.Completed,
		})
	}
	return rows, nil
}

func (row ExportCSVRow) Record() []string {
	completed := "no"
	if row.Completed {
		completed = "yes"
	}
	return []string{
		strconv.FormatUint(uint64(row.ID), 10),
		row.Date,
		row.Task,
		row.AIResponse,
		completed,
	}
}
