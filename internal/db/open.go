package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"

	InMemoryPath = ":memory:"
)

type Options struct {
	// URL selects Postgres when set.
	URL string
	// Path is the SQLite file used when URL is empty. InMemoryPath keeps the data in process memory.
	Path string
}

// Open connects to Postgres or SQLite depending on options and applies the
// embedded migrations for that dialect.
func Open(options Options, logger *zap.Logger) (*gorm.DB, error) {
	if strings.TrimSpace(options.URL) != "" {
		return OpenPostgres(options.URL, logger)
	}
	return OpenSQLite(options.Path, logger)
}

func OpenSQLite(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	inMemory := dbPath == InMemoryPath
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if inMemory {
		// every pooled connection would otherwise see its own empty database
		sqlDB, err := database.DB()
		if err != nil {
			return nil, fmt.Errorf("open sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := applyEmbeddedMigrations(database); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

func OpenPostgres(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	database, err := gorm.Open(postgres.Open(normalizePostgresDSN(dsn)), &gorm.Config{Logger: newGormLogger(logger)})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := database.Exec("SELECT 1").Error; err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := applyEmbeddedMigrations(database); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

// normalizePostgresDSN accepts URL or key=value DSNs and defaults sslmode to
// disable for key=value lists that omit it.
func normalizePostgresDSN(raw string) string {
	dsn := strings.Trim(strings.TrimSpace(raw), "\"'")
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return dsn
	}
	cleaned := strings.Join(strings.Fields(dsn), " ")
	if cleaned != "" && !strings.Contains(strings.ToLower(cleaned), "sslmode=") {
		cleaned += " sslmode=disable"
	}
	return cleaned
}

func newGormLogger(logger *zap.Logger) gormlogger.Interface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return gormlogger.New(
		zap.NewStdLog(logger.Named("gorm")),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func dialectOf(database *gorm.DB) string {
	if database.Dialector.Name() == DialectPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}
