package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/nudge/internal/db"
	"github.com/terraincognita07/nudge/internal/metrics"
	"github.com/terraincognita07/nudge/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db           *gorm.DB
	secretKey    []byte
	tokenTTL     time.Duration
	location     *time.Location
	cookieSecure bool
	logger       *zap.Logger
	metrics      *metrics.Metrics
	coach        Coach
	loginLimiter *attemptLimiter
	now          func() time.Time

	repositories    *db.Repositories
	authService     *services.AuthService
	checkInService  *services.CheckInService
	summaryService  *services.SummaryService
	settingsService *services.SettingsService
	exportService   *services.ExportService
}

// Coach produces the AI text for check-ins and weekly summaries.
type Coach interface {
	services.NudgeGenerator
	services.WeeklySummarizer
}

type HandlerConfig struct {
	SecretKey    string
	TokenTTL     time.Duration
	Location     *time.Location
	CookieSecure bool
}

const (
	defaultAuthTokenTTL = 24 * time.Hour

	loginAttemptsBurst  = 5
	loginAttemptsWindow = 15 * time.Minute
)

type authClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
