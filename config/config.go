// Package config loads application configuration from environment
// variables. All knobs have defaults except the Telegram bot token.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment represents the application environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config holds all application configuration.
type Config struct {
	// Application
	App AppConfig

	// Telegram Bot
	Telegram TelegramConfig

	// Redis record store
	Redis RedisConfig

	// Optional PostgreSQL level-up history
	Database DatabaseConfig

	// Leaderboard
	Leaderboard LeaderboardConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Environment Environment
	Debug       bool
	LogLevel    string

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration
}

// TelegramConfig holds Telegram Bot settings.
type TelegramConfig struct {
	// Token is the bot token from @BotFather.
	Token string

	// PollingTimeout is the long-polling timeout in seconds.
	PollingTimeout int

	// AdminIDs are the Telegram user IDs allowed to run /reset and /wipe.
	AdminIDs []int64
}

// IsAdmin reports whether the given Telegram user may run admin commands.
func (c TelegramConfig) IsAdmin(id int64) bool {
	for _, adminID := range c.AdminIDs {
		if adminID == id {
			return true
		}
	}
	return false
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	// URL is the connection URL, e.g. "redis://localhost:6379/0".
	URL string

	// Enabled switches between the Redis store and the in-process
	// memory store (development without Redis).
	Enabled bool
}

// DatabaseConfig holds the optional PostgreSQL settings.
type DatabaseConfig struct {
	// URL is the connection string. Empty disables level-up history.
	URL string
}

// Enabled reports whether the level-up history is configured.
func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// LeaderboardConfig holds leaderboard settings.
type LeaderboardConfig struct {
	// Limit is the number of entries shown by /leaderboard.
	Limit int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Environment:     Environment(getEnv("APP_ENV", string(EnvDevelopment))),
			Debug:           getEnvBool("APP_DEBUG", false),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Telegram: TelegramConfig{
			Token:          getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollingTimeout: getEnvInt("POLLING_TIMEOUT", 30),
			AdminIDs:       getEnvInt64List("ADMIN_IDS"),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", "redis://localhost:6379/0"),
			Enabled: getEnvBool("REDIS_ENABLED", true),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Leaderboard: LeaderboardConfig{
			Limit: getEnvInt("LEADERBOARD_LIMIT", 10),
		},
	}

	if cfg.Telegram.Token == "" {
		return nil, errors.New("config: TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.Leaderboard.Limit <= 0 {
		return nil, fmt.Errorf("config: LEADERBOARD_LIMIT must be positive, got %d", cfg.Leaderboard.Limit)
	}

	return cfg, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENV HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvInt64List parses a comma-separated list of int64 values.
// Malformed entries are skipped.
func getEnvInt64List(key string) []int64 {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]int64, 0, len(parts))
	for _, part := range parts {
		parsed, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		values = append(values, parsed)
	}
	return values
}
