package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/models"
)

type CheckInEntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	ListByUser(ctx context.Context, userID uint) ([]models.Entry, error)
	FindOwned(ctx context.Context, entryID uint, userID uint) (models.Entry, bool, error)
	MarkCompleted(ctx context.Context, entryID uint, userID uint) error
}

type SettingsRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (models.Setting, error)
	UpdateByUser(ctx context.Context, userID uint, updates map[string]any) error
}

type NudgeGenerator interface {
	Nudge(ctx context.Context, task string, tone string) string
}

type CheckInService struct {
	entries  CheckInEntryRepository
	settings SettingsRepository
	nudges   NudgeGenerator
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewCheckInService(entries CheckInEntryRepository, settings SettingsRepository, nudges NudgeGenerator, m *metrics.Metrics) *CheckInService {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &CheckInService{
		entries:  entries,
		settings: settings,
		nudges:   nudges,
		metrics:  m,
		now:      time.Now,
	}
}

// SubmitCheckIn stores today's task together with the generated nudge.
func (service *CheckInService) SubmitCheckIn(ctx context.Context, userID uint, taskText string) (models.Entry, error) {
	task, err := NormalizeTask(taskText)
	if err != nil {
		return models.Entry{}, err
	}

	setting, err := service.settings.GetOrCreate(ctx, userID)
	if err != nil {
		return models.Entry{}, storageError("load settings", err)
	}
	tone := string(setting.AITone)
	if tone == "" {
		tone = string(models.ToneMotivational)
	}

	entry := models.Entry{
		UserID:     userID,
		Task:       task,
		AIResponse: service.nudges.Nudge(ctx, task, tone),
		Completed:  false,
		Date:       service.now().UTC(),
	}
	if err := service.entries.Create(ctx, &entry); err != nil {
		return models.Entry{}, storageError("create entry", err)
	}

	service.metrics.CheckInsTotal.Inc()
	return entry, nil
}

// CompleteEntry is idempotent; an already completed entry is returned as is.
func (service *CheckInService) CompleteEntry(ctx context.Context, entryID uint, userID uint) (models.Entry, error) {
	entry, found, err := service.entries.FindOwned(ctx, entryID, userID)
	if err != nil {
		return models.Entry{}, storageError("find entry", err)
	}
	if !found {
		return models.Entry{}, ErrNotFound
	}
	if entry.Completed {
		return entry, nil
	}

	if err := service.entries.MarkCompleted(ctx, entryID, userID); err != nil {
		return models.Entry{}, storageError("complete entry", err)
	}
	entry.Completed = true
	service.metrics.EntriesCompletedTotal.Inc()
	return entry, nil
}

func (service *CheckInService) ListEntries(ctx context.Context, userID uint) ([]models.Entry, error) {
	entries, err := service.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list entries", err)
	}
	return entries, nil
}

func NormalizeTask(raw string) (string, error) {
	task := strings.TrimSpace(raw)
	if task == "" {
		return "", newValidationError("task", "task is required")
	}
	if utf8.RuneCountInString(task) > models.MaxTaskLength {
		return "", newValidationError("task", "task must be at most 60 characters")
	}
	return task, nil
}
