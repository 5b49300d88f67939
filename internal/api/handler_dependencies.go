package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/nudge/internal/db"
	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, coach Coach, cfg HandlerConfig, logger *zap.Logger, m *metrics.Metrics) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if coach == nil {
		return nil, errors.New("coach is required")
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultAuthTokenTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}

	handler := &Handler{
		db:           database,
		secretKey:    []byte(cfg.SecretKey),
		tokenTTL:     cfg.TokenTTL,
		location:     cfg.Location,
		cookieSecure: cfg.CookieSecure,
		logger:       logger.Named("api"),
		metrics:      m,
		coach:        coach,
		loginLimiter: newAttemptLimiter(loginAttemptsWindow, loginAttemptsBurst),
		now:          time.Now,
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.checkInService = services.NewCheckInService(handler.repositories.Entries, handler.repositories.Settings, handler.coach, handler.metrics)
	handler.summaryService = services.NewSummaryService(handler.repositories.Entries, handler.repositories.Summaries, handler.coach, handler.location, handler.metrics)
	handler.settingsService = services.NewSettingsService(handler.repositories.Settings)
	handler.exportService = services.NewExportService(handler.repositories.Users, handler.repositories.Entries, handler.repositories.Summaries, handler.repositories.Settings)
	return handler
}
