package services

import (
	"context"
	"time"

	"github.com/terraincognita07/nudge/internal/ai"
	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/models"
)

type SummaryEntryReader interface {
	ListByUserRange(ctx context.Context, userID uint, fromStart *time.Time, toEnd *time.Time) ([]models.Entry, error)
}

type SummaryRepository interface {
	FindByWeek(ctx context.Context, userID uint, weekStarting time.Time) (models.Summary, bool, error)
	CreateOrGet(ctx context.Context, summary *models.Summary) (models.Summary, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Summary, error)
}

type WeeklySummarizer interface {
	WeeklySummary(ctx context.Context, entries []ai.EntryLine) ai.WeeklySummary
}

type SummaryService struct {
	entries    SummaryEntryReader
	summaries  SummaryRepository
	summarizer WeeklySummarizer
	location   *time.Location
	metrics    *metrics.Metrics
}

func NewSummaryService(entries SummaryEntryReader, summaries SummaryRepository, summarizer WeeklySummarizer, location *time.Location, m *metrics.Metrics) *SummaryService {
	if location == nil {
		location = time.UTC
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &SummaryService{
		entries:    entries,
		summaries:  summaries,
		summarizer: summarizer,
		location:   location,
		metrics:    m,
	}
}

// GetOrCreateWeeklySummary returns the stored summary for the week holding
// reference, generating it on first request. A week without entries yields
// nil and no error.
func (service *SummaryService) GetOrCreateWeeklySummary(ctx context.Context, userID uint, reference time.Time) (*models.Summary, error) {
	summary, _, err := service.getOrCreate(ctx, userID, reference, metrics.TriggerOnDemand)
	return summary, err
}

// ScheduledWeeklySummary is the scheduler's entry point; created reports
// whether a new row was stored by this call.
func (service *SummaryService) ScheduledWeeklySummary(ctx context.Context, userID uint, reference time.Time) (summary *models.Summary, created bool, err error) {
	return service.getOrCreate(ctx, userID, reference, metrics.TriggerScheduled)
}

func (service *SummaryService) getOrCreate(ctx context.Context, userID uint, reference time.Time, trigger string) (*models.Summary, bool, error) {
	weekStart, weekEnd := WeekBounds(reference, service.location)

	existing, found, err := service.summaries.FindByWeek(ctx, userID, weekStart)
	if err != nil {
		return nil, false, storageError("find summary", err)
	}
	if found {
		return &existing, false, nil
	}

	entries, err := service.entries.ListByUserRange(ctx, userID, &weekStart, &weekEnd)
	if err != nil {
		return nil, false, storageError("list week entries", err)
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	lines := make([]ai.EntryLine, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, ai.EntryLine{Date: entry.Date, Task: entry.Task, Completed: entry.Completed})
	}
	generated := service.summarizer.WeeklySummary(ctx, lines)

	candidate := models.Summary{
		UserID:       userID,
		Achievements: generated.Achievements,
		Patterns:     generated.Patterns,
		Themes:       generated.Themes,
		WeekStarting: weekStart,
	}
	stored, err := service.summaries.CreateOrGet(ctx, &candidate)
	if err != nil {
		return nil, false, storageError("create summary", err)
	}

	// a concurrent caller may have won the insert
	created := stored.ID == candidate.ID && candidate.ID != 0
	if created {
		service.metrics.SummariesGeneratedTotal.WithLabelValues(trigger).Inc()
	}
	return &stored, created, nil
}

func (service *SummaryService) ListSummaries(ctx context.Context, userID uint) ([]models.Summary, error) {
	summaries, err := service.summaries.ListByUser(ctx, userID)
	if err != nil {
		return nil, storageError("list summaries", err)
	}
	return summaries, nil
}
