// Package cache stores rendered schedule responses so repeated requests for
// the same loan are served without recomputation.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/iwvelando/mortgage-calculator/pkg/amortization"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/validation"
)

// Repository is a byte cache with per-entry expiry.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Config selects and configures the cache backend.
type Config struct {
	Backend       string `yaml:"backend"` // memory, redis, none
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDb"`
	TTL           string `yaml:"ttl"`
}

// TTLDuration parses the configured TTL, falling back to the default.
func (c Config) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return constants.DefaultCacheTTL, nil
	}
	ttl, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if ttl <= 0 {
		return constants.DefaultCacheTTL, nil
	}
	return ttl, nil
}

// New builds the configured cache backend.
func New(cfg Config) (Repository, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = constants.CacheBackendMemory
	}
	if err := validation.ValidateCacheBackend(backend); err != nil {
		return nil, err
	}

	switch backend {
	case constants.CacheBackendRedis:
		if cfg.RedisAddress == "" {
			return nil, fmt.Errorf("redis cache backend requires redisAddress")
		}
		return NewRedisCache(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB), nil
	case constants.CacheBackendNone:
		return NoopCache{}, nil
	default:
		return NewMemoryCache(), nil
	}
}

// ScheduleKey returns the canonical cache key for a calculation request.
func ScheduleKey(params amortization.LoanParameters, includeMonthly bool) string {
	return constants.CacheKeyPrefix + params.MortgageType.String() +
		":" + strconv.FormatFloat(params.Principal, 'f', -1, 64) +
		":" + strconv.FormatFloat(params.AnnualInterestRatePercent, 'f', -1, 64) +
		":" + strconv.Itoa(params.TermYears) +
		":" + strconv.FormatBool(params.ApplyTaxDeduction) +
		":" + strconv.FormatFloat(params.TaxRate, 'f', -1, 64) +
		":" + strconv.FormatBool(includeMonthly)
}

// NoopCache never stores anything.
type NoopCache struct{}

// Get always misses.
func (NoopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (NoopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Close is a no-op.
func (NoopCache) Close() error { return nil }
