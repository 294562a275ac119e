package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	RosterSourceEmbedded = "embedded"
	RosterSourceFile     = "file"
	RosterSourcePostgres = "postgres"
)

type Config struct {
	Logging   LoggingConfig
	Roster    RosterConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Lifecycle LifecycleConfig
	Flags     FlagConfig
}

type LoggingConfig struct {
	Level  string
	Format string
	File   string
}

type RosterConfig struct {
	Source string
	File   string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Table    string
}

type RedisConfig struct {
	Enabled      bool
	Host         string
	Port         int
	Password     string
	DB           int
	ReadyChannel string
}

type LifecycleConfig struct {
	DependencyTimeout time.Duration
}

type FlagConfig struct {
	CDNBaseURL         string
	FallbackURL        string
	PreloadConcurrency int
	RequestTimeout     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			File:   getEnv("LOG_FILE", ""),
		},
		Roster: RosterConfig{
			Source: strings.ToLower(getEnv("ROSTER_SOURCE", RosterSourceEmbedded)),
			File:   getEnv("ROSTER_FILE", ""),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "polyglot"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "polyglot"),
			Table:    getEnv("POSTGRES_TABLE", "personas"),
		},
		Redis: RedisConfig{
			Enabled:      getEnvBool("REDIS_ENABLED", false),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			ReadyChannel: getEnv("REDIS_READY_CHANNEL", "polyglot:catalog:ready"),
		},
		Lifecycle: LifecycleConfig{
			DependencyTimeout: time.Duration(getEnvInt("AGE_DEPENDENCY_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Flags: FlagConfig{
			CDNBaseURL:         getEnv("FLAG_CDN_BASE_URL", "https://flagcdn.com"),
			FallbackURL:        getEnv("FLAG_FALLBACK_URL", "/images/flags/unknown.png"),
			PreloadConcurrency: getEnvInt("FLAG_PRELOAD_CONCURRENCY", 8),
			RequestTimeout:     time.Duration(getEnvInt("FLAG_REQUEST_TIMEOUT_SECONDS", 5)) * time.Second,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Roster.Source {
	case RosterSourceEmbedded, RosterSourcePostgres:
	case RosterSourceFile:
		if strings.TrimSpace(c.Roster.File) == "" {
			return fmt.Errorf("ROSTER_FILE is required when ROSTER_SOURCE=file")
		}
	default:
		return fmt.Errorf("unknown ROSTER_SOURCE %q", c.Roster.Source)
	}
	if c.Roster.Source == RosterSourcePostgres && c.Postgres.Table == "" {
		return fmt.Errorf("POSTGRES_TABLE is required when ROSTER_SOURCE=postgres")
	}
	if c.Redis.Enabled && c.Redis.ReadyChannel == "" {
		return fmt.Errorf("REDIS_READY_CHANNEL is required when REDIS_ENABLED=true")
	}
	if c.Lifecycle.DependencyTimeout <= 0 {
		return fmt.Errorf("AGE_DEPENDENCY_TIMEOUT_SECONDS must be positive")
	}
	if c.Flags.PreloadConcurrency <= 0 {
		return fmt.Errorf("FLAG_PRELOAD_CONCURRENCY must be positive")
	}
	if c.Flags.RequestTimeout <= 0 {
		return fmt.Errorf("FLAG_REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
