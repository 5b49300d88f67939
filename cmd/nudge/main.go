package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/nudge/internal/api"
	"github.com/terraincognita07/nudge/internal/cli"
	"github.com/terraincognita07/nudge/internal/config"
	"github.com/terraincognita07/nudge/internal/db"
	"github.com/terraincognita07/nudge/internal/logging"
	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the weekly summary and reminder jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	rootCmd := &cobra.Command{
		Use:          "nudge",
		Short:        "Daily check-in API with AI nudges and weekly summaries",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         serveCmd.RunE,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "optional YAML config file")

	rootCmd.AddCommand(
		serveCmd,
		newMigrateCommand(&configPath),
		newSummarizeCommand(&configPath),
		newGenSecretCommand(),
	)
	return rootCmd
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer syncLogger(logger)
			return cli.RunMigrateCommand(cfg.Database, logger, cmd.OutOrStdout())
		},
	}
}

func newSummarizeCommand(configPath *string) *cobra.Command {
	var date string

	command := &cobra.Command{
		Use:   "summarize",
		Short: "Generate weekly summaries for the week before --date",
		Long: `Run one weekly summary pass as if the scheduler ticked on --date
(default today), regardless of the weekday. Users with weekly summaries
disabled are skipped and existing summaries are left unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer syncLogger(logger)

			runDay, err := cli.ParseRunDate(date, cfg.Location(), time.Now())
			if err != nil {
				return err
			}
			report, err := cli.RunSummarizeCommand(cmd.Context(), cfg, runDay, logger, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d summaries failed", report.Failed)
			}
			return nil
		},
	}
	command.Flags().StringVar(&date, "date", "", "run day as YYYY-MM-DD in the configured timezone")
	return command
}

func newGenSecretCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "gen-secret",
		Short: "Print a random value for auth.secret_key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.RunGenerateSecretCommand(cmd.OutOrStdout())
		},
	}
}

func loadRuntime(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

func syncLogger(logger *zap.Logger) {
	_ = logger.Sync()
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := loadRuntime(configPath)
	if err != nil {
		return err
	}
	defer syncLogger(logger)

	location := cfg.Location()
	database, err := cli.OpenDatabase(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = cli.CloseDatabase(database)
	}()

	m := metrics.NewMetrics()
	generator, err := cli.NewGenerator(cfg.AI, logger, m)
	if err != nil {
		return fmt.Errorf("ai init failed: %w", err)
	}

	handler, err := api.NewHandler(database, generator, api.HandlerConfig{
		SecretKey:    cfg.Auth.SecretKey,
		TokenTTL:     cfg.Auth.TokenTTL,
		Location:     location,
		CookieSecure: cfg.Server.CookieSecure,
	}, logger, m)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := api.NewApp(handler)

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()
	stopJobs := startBackgroundJobs(lifecycleCtx, cfg, database, generator, logger, m)
	defer stopJobs()

	sigCtx, stopSignals := signal.NotifyContext(lifecycleCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		logger.Info("shutting down")
		stopJobs()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	address := ":" + strconv.Itoa(cfg.Server.Port)
	logger.Info("nudge listening",
		zap.String("address", address),
		zap.String("timezone", location.String()),
		zap.Bool("postgres", cfg.Database.URL != ""),
		zap.Bool("ai_enabled", cfg.AI.APIKey != ""),
		zap.Bool("scheduler_enabled", cfg.SchedulerEnabled()),
		zap.Bool("reminders_enabled", cfg.Reminder.WebhookURL != ""),
	)
	if err := app.Listen(address); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// startBackgroundJobs returns a stop function that is safe to call more than once.
func startBackgroundJobs(ctx context.Context, cfg *config.Config, database *gorm.DB, coach services.WeeklySummarizer, logger *zap.Logger, m *metrics.Metrics) func() {
	location := cfg.Location()
	repositories := db.NewRepositories(database)
	stops := make([]func(), 0, 2)

	if cfg.SchedulerEnabled() {
		summaryService := services.NewSummaryService(repositories.Entries, repositories.Summaries, coach, location, m)
		scheduler := services.NewWeeklySummaryScheduler(repositories.Users, repositories.Settings, summaryService, location, cfg.Scheduler.Interval, logger, m)
		stops = append(stops, scheduler.Start(ctx))
	}

	var notifier services.ReminderNotifier
	if cfg.Reminder.WebhookURL != "" {
		notifier = services.NewWebhookNotifier(cfg.Reminder.WebhookURL, 0)
	}
	reminders := services.NewReminderService(repositories.Users, repositories.Settings, repositories.Entries, notifier, location, cfg.Reminder.Interval, logger, m)
	stops = append(stops, reminders.Start(ctx))

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}
