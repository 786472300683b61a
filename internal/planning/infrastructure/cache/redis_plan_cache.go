package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// ErrCacheUnavailable is returned while the breaker is open.
var ErrCacheUnavailable = errors.New("plan cache unavailable")

const (
	// DefaultKeyPrefix namespaces plan entries.
	DefaultKeyPrefix = "tskprio:"

	// DefaultTTL is how long a computed plan is kept.
	DefaultTTL = 10 * time.Minute
)

// Config configures the Redis plan cache.
type Config struct {
	KeyPrefix string
	TTL       time.Duration

	// FailureThreshold is the number of consecutive failures that open the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		KeyPrefix:        DefaultKeyPrefix,
		TTL:              DefaultTTL,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// RedisPlanCache stores serialized action plans in Redis.
// Keys are namespaced: {prefix}{key}
type RedisPlanCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	config  Config
	logger  *slog.Logger
}

// NewRedisPlanCache creates a plan cache on top of an existing client.
func NewRedisPlanCache(client *redis.Client, config Config, logger *slog.Logger) *RedisPlanCache {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultConfig()
	if config.KeyPrefix == "" {
		config.KeyPrefix = defaults.KeyPrefix
	}
	if config.TTL <= 0 {
		config.TTL = defaults.TTL
	}
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = defaults.OpenTimeout
	}

	c := &RedisPlanCache{
		client: client,
		config: config,
		logger: logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "plan-cache",
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return c
}

// Dial parses a redis:// URL and returns a connected cache.
func Dial(ctx context.Context, url string, config Config, logger *slog.Logger) (*RedisPlanCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisPlanCache(client, config, logger), nil
}

func (c *RedisPlanCache) namespaceKey(key string) string {
	return c.config.KeyPrefix + key
}

// Get returns the cached value. A missing key is a miss, not a failure.
func (c *RedisPlanCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.breaker.Execute(func() ([]byte, error) {
		val, err := c.client.Get(ctx, c.namespaceKey(key)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		return nil, false, c.wrap(err)
	}
	return data, data != nil, nil
}

// Set stores a value with the configured TTL.
func (c *RedisPlanCache) Set(ctx context.Context, key string, value []byte) error {
	_, err := c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, c.namespaceKey(key), value, c.config.TTL).Err()
	})
	return c.wrap(err)
}

// State reports the breaker state.
func (c *RedisPlanCache) State() gobreaker.State {
	return c.breaker.State()
}

// Close closes the underlying client.
func (c *RedisPlanCache) Close() error {
	return c.client.Close()
}

func (c *RedisPlanCache) wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return fmt.Errorf("plan cache: %w", err)
}

// Ping checks the Redis connection without going through the breaker.
func (c *RedisPlanCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
