package services

import (
	"context"
	"sync"
	"time"

	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/models"
	"go.uber.org/zap"
)

const DefaultSchedulerInterval = 24 * time.Hour

type UserLister interface {
	ListAll(ctx context.Context) ([]models.User, error)
}

type ScheduledSummaryGenerator interface {
	ScheduledWeeklySummary(ctx context.Context, userID uint, reference time.Time) (*models.Summary, bool, error)
}

type RunReport struct {
	Users     int
	Generated int
	Skipped   int
	Failed    int
}

// WeeklySummaryScheduler generates last week's summary for every opted-in
// user when it ticks on a Sunday.
type WeeklySummaryScheduler struct {
	users     UserLister
	settings  SettingsRepository
	summaries ScheduledSummaryGenerator
	location  *time.Location
	interval  time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewWeeklySummaryScheduler(
	users UserLister,
	settings SettingsRepository,
	summaries ScheduledSummaryGenerator,
	location *time.Location,
	interval time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *WeeklySummaryScheduler {
	if location == nil {
		location = time.UTC
	}
	if interval <= 0 {
		interval = DefaultSchedulerInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &WeeklySummaryScheduler{
		users:     users,
		settings:  settings,
		summaries: summaries,
		location:  location,
		interval:  interval,
		logger:    logger.Named("scheduler"),
		metrics:   m,
		now:       time.Now,
	}
}

// Start runs one tick immediately and then one per interval until stop is
// called or ctx ends. stop blocks until the running tick returns.
func (scheduler *WeeklySummaryScheduler) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(scheduler.interval)
		defer ticker.Stop()

		scheduler.RunOnce(ctx, scheduler.now())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.RunOnce(ctx, scheduler.now())
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			wg.Wait()
		})
	}
}

// RunOnce summarizes the week that ended at the start of now's day when now
// falls on a Sunday, and does nothing on other days.
func (scheduler *WeeklySummaryScheduler) RunOnce(ctx context.Context, now time.Time) RunReport {
	if now.In(scheduler.location).Weekday() != time.Sunday {
		return RunReport{}
	}
	return scheduler.RunForWeek(ctx, now.AddDate(0, 0, -7))
}

// RunForWeek summarizes the week containing reference for every opted-in user.
func (scheduler *WeeklySummaryScheduler) RunForWeek(ctx context.Context, reference time.Time) RunReport {
	report := RunReport{}
	users, err := scheduler.users.ListAll(ctx)
	if err != nil {
		scheduler.logger.Error("list users failed", zap.Error(err))
		scheduler.metrics.SchedulerRunsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return report
	}
	report.Users = len(users)

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}

		setting, err := scheduler.settings.GetOrCreate(ctx, user.ID)
		if err != nil {
			report.Failed++
			scheduler.logger.Warn("load settings failed", zap.Uint("user_id", user.ID), zap.Error(err))
			continue
		}
		if !setting.WeeklySummary {
			report.Skipped++
			continue
		}

		_, created, err := scheduler.summaries.ScheduledWeeklySummary(ctx, user.ID, reference)
		switch {
		case err != nil:
			report.Failed++
			scheduler.logger.Warn("weekly summary failed", zap.Uint("user_id", user.ID), zap.Error(err))
		case created:
			report.Generated++
		default:
			report.Skipped++
		}
	}

	outcome := metrics.OutcomeSuccess
	if report.Failed > 0 {
		outcome = metrics.OutcomeFailure
	}
	scheduler.metrics.SchedulerRunsTotal.WithLabelValues(outcome).Inc()
	scheduler.logger.Info("weekly summary run finished",
		zap.Int("users", report.Users),
		zap.Int("generated", report.Generated),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report
}
