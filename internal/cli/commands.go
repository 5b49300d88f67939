package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/terraincognita07/nudge/internal/ai"
	"github.com/terraincognita07/nudge/internal/config"
	"github.com/terraincognita07/nudge/internal/db"
	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/security"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const runDateLayout = "2006-01-02"

// OpenDatabase connects using the database section and applies pending migrations.
func OpenDatabase(cfg config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	database, err := db.Open(db.Options{URL: cfg.URL, Path: cfg.Path}, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}
	return database, nil
}

// CloseDatabase releases the pool behind database.
func CloseDatabase(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewGenerator wires the OpenAI completer when an API key is configured.
// Without one every nudge and summary uses the fixed fallbacks.
func NewGenerator(cfg config.AIConfig, logger *zap.Logger, m *metrics.Metrics) (*ai.Generator, error) {
	completer, err := ai.NewOpenAICompleter(ai.OpenAIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if errors.Is(err, ai.ErrMissingAPIKey) {
		logger.Warn("no AI api key configured, using fallback responses")
		return ai.NewGenerator(nil, logger, m), nil
	}
	if err != nil {
		return nil, err
	}
	return ai.NewGenerator(completer, logger, m), nil
}

func RunMigrateCommand(cfg config.DatabaseConfig, logger *zap.Logger, out io.Writer) error {
	database, err := OpenDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = CloseDatabase(database)
	}()

	_, err = fmt.Fprintln(out, "Migrations applied")
	return err
}

// ParseRunDate reads a YYYY-MM-DD day in location. An empty value means now.
func ParseRunDate(raw string, location *time.Location, now time.Time) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return now.In(location), nil
	}
	day, err := time.ParseInLocation(runDateLayout, value, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}

// RunSummarizeCommand performs one scheduler pass as if it ran on runDay,
// summarizing the week before runDay for every opted-in user.
func RunSummarizeCommand(ctx context.Context, cfg *config.Config, runDay time.Time, logger *zap.Logger, out io.Writer) (services.RunReport, error) {
	database, err := OpenDatabase(cfg.Database, logger)
	if err != nil {
		return services.RunReport{}, err
	}
	defer func() {
		_ = CloseDatabase(database)
	}()

	m := metrics.NewMetrics()
	generator, err := NewGenerator(cfg.AI, logger, m)
	if err != nil {
		return services.RunReport{}, err
	}

	report := summarizeWeek(ctx, database, generator, cfg.Location(), runDay, logger, m)
	_, err = fmt.Fprintf(out, "Users: %d, generated: %d, skipped: %d, failed: %d\n",
		report.Users, report.Generated, report.Skipped, report.Failed)
	return report, err
}

func summarizeWeek(ctx context.Context, database *gorm.DB, summarizer services.WeeklySummarizer, location *time.Location, runDay time.Time, logger *zap.Logger, m *metrics.Metrics) services.RunReport {
	repositories := db.NewRepositories(database)
	summaryService := services.NewSummaryService(repositories.Entries, repositories.Summaries, summarizer, location, m)
	scheduler := services.NewWeeklySummaryScheduler(repositories.Users, repositories.Settings, summaryService, location, 0, logger, m)
	return scheduler.RunForWeek(ctx, runDay.AddDate(0, 0, -7))
}

func RunGenerateSecretCommand(out io.Writer) error {
	secret, err := security.GenerateSecretKey()
	if err != nil {
		return fmt.Errorf("generate secret key: %w", err)
	}
	_, err = fmt.Fprintln(out, secret)
	return err
}
