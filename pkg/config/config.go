package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// EnvConfigPath names the variable that points at a TOML config file.
const EnvConfigPath = "TSKPRIO_CONFIG"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `toml:"app_env"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Database
	DatabaseURL    string `toml:"database_url"`
	DatabaseDriver string `toml:"database_driver"`
	SQLitePath     string `toml:"sqlite_path"`

	// Redis plan cache. Empty disables caching.
	RedisURL     string        `toml:"redis_url"`
	PlanCacheTTL time.Duration `toml:"plan_cache_ttl"`

	// RabbitMQ. Empty makes the worker drain the outbox without publishing.
	RabbitMQURL string `toml:"rabbitmq_url"`

	// Outbox
	OutboxPollInterval     time.Duration `toml:"outbox_poll_interval"`
	OutboxBatchSize        int           `toml:"outbox_batch_size"`
	OutboxMaxRetries       int           `toml:"outbox_max_retries"`
	OutboxRetentionDays    int           `toml:"outbox_retention_days"`
	OutboxCleanupInterval  time.Duration `toml:"outbox_cleanup_interval"`
	OutboxProcessorEnabled bool          `toml:"outbox_processor_enabled"`

	// Worker
	WorkerHealthAddr string `toml:"worker_health_addr"`

	// MCP
	MCPAddr      string `toml:"mcp_addr"`
	MCPAuthToken string `toml:"mcp_auth_token"`

	// Path is the TOML file the values were read from, if any.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AppEnv:    "development",
		LogLevel:  "info",
		LogFormat: "text",

		DatabaseDriver: "auto",

		PlanCacheTTL: 10 * time.Minute,

		OutboxPollInterval:     500 * time.Millisecond,
		OutboxBatchSize:        50,
		OutboxMaxRetries:       5,
		OutboxRetentionDays:    14,
		OutboxCleanupInterval:  24 * time.Hour,
		OutboxProcessorEnabled: true,

		WorkerHealthAddr: "0.0.0.0:8081",

		MCPAddr: "0.0.0.0:8082",
	}
}

// Load builds the configuration: defaults, then the TOML file at path (or
// $TSKPRIO_CONFIG), then environment variables. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.Path = path
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file not found: %s", path)
		}
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.DatabaseDriver = getEnv("DATABASE_DRIVER", cfg.DatabaseDriver)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)

	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.PlanCacheTTL = getDurationEnv("PLAN_CACHE_TTL", cfg.PlanCacheTTL)

	cfg.RabbitMQURL = getEnv("RABBITMQ_URL", cfg.RabbitMQURL)

	cfg.OutboxPollInterval = getDurationEnv("OUTBOX_POLL_INTERVAL", cfg.OutboxPollInterval)
	cfg.OutboxBatchSize = getIntEnv("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.OutboxMaxRetries = getIntEnv("OUTBOX_MAX_RETRIES", cfg.OutboxMaxRetries)
	cfg.OutboxRetentionDays = getIntEnv("OUTBOX_RETENTION_DAYS", cfg.OutboxRetentionDays)
	cfg.OutboxCleanupInterval = getDurationEnv("OUTBOX_CLEANUP_INTERVAL", cfg.OutboxCleanupInterval)
	cfg.OutboxProcessorEnabled = getBoolEnv("OUTBOX_PROCESSOR_ENABLED", cfg.OutboxProcessorEnabled)

	cfg.WorkerHealthAddr = getEnv("WORKER_HEALTH_ADDR", cfg.WorkerHealthAddr)

	cfg.MCPAddr = getEnv("MCP_ADDR", cfg.MCPAddr)
	cfg.MCPAuthToken = getEnv("MCP_AUTH_TOKEN", cfg.MCPAuthToken)
}

// Validate rejects values the rest of the application cannot work with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "", "auto", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unsupported LOG_FORMAT %q", c.LogFormat)
	}
	if c.OutboxBatchSize <= 0 {
		return fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.OutboxBatchSize)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
