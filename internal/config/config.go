// Package config loads Nudge settings from an optional .env file, an
// optional YAML file and NUDGE_* environment variables, in that order of
// increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix = "NUDGE_"

	minSecretKeyLength = 32
	maxConfigFileSize  = 1024 * 1024
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
	"your-secret-key":                            {},
}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Auth      AuthConfig      `koanf:"auth"`
	Database  DatabaseConfig  `koanf:"database"`
	AI        AIConfig        `koanf:"ai"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Reminder  ReminderConfig  `koanf:"reminder"`
	Log       LogConfig       `koanf:"log"`
}

type ServerConfig struct {
	Port         int    `koanf:"port"`
	Timezone     string `koanf:"timezone"`
	CookieSecure bool   `koanf:"cookie_secure"`
}

type AuthConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type DatabaseConfig struct {
	URL  string `koanf:"url"`
	Path string `koanf:"path"`
}

type AIConfig struct {
	APIKey  string        `koanf:"api_key"`
	Model   string        `koanf:"model"`
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

type SchedulerConfig struct {
	Enabled  *bool         `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

type ReminderConfig struct {
	WebhookURL string        `koanf:"webhook_url"`
	Interval   time.Duration `koanf:"interval"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// Load reads .env (if present), then configPath (if non-empty), then the
// environment. The result has defaults applied and is validated.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	k := koanf.New(".")

	if configPath != "" {
		content, err := readConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	}

	// NUDGE_SERVER_COOKIE_SECURE -> server.cookie_secure
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func envKey(name string) string {
	trimmed := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	parts := strings.SplitN(trimmed, "_", 2)
	if len(parts) == 1 {
		return trimmed
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "UTC"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "data/nudge.db"
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o"
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = 20 * time.Second
	}
	if cfg.Scheduler.Enabled == nil {
		enabled := true
		cfg.Scheduler.Enabled = &enabled
	}
	if cfg.Scheduler.Interval == 0 {
		cfg.Scheduler.Interval = 24 * time.Hour
	}
	if cfg.Reminder.Interval == 0 {
		cfg.Reminder.Interval = time.Minute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("server.timezone %q: %w", c.Server.Timezone, err)
	}
	if err := ValidateSecretKey(c.Auth.SecretKey); err != nil {
		return err
	}
	if c.Auth.TokenTTL < 0 || c.AI.Timeout < 0 || c.Scheduler.Interval < 0 || c.Reminder.Interval < 0 {
		return errors.New("durations must not be negative")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}

// ValidateSecretKey rejects empty, short and well-known placeholder keys.
func ValidateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("auth.secret_key is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return errors.New("auth.secret_key uses an insecure placeholder")
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("auth.secret_key must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}

func (c *Config) SchedulerEnabled() bool {
	return c.Scheduler.Enabled == nil || *c.Scheduler.Enabled
}
