// Package cache provides a Redis-backed shared cache tier for exchange
// rates. When Redis is unavailable the cache degrades gracefully: misses
// are reported and the rate service falls through to its providers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/camayank/transfer-pricing-platform/config"
	"github.com/camayank/transfer-pricing-platform/internal/forex"
)

const rateKeyPrefix = "forex:rate:%s:%s"

// RateCache is a cross-instance exchange rate cache backed by Redis.
// It implements forex.SharedRateCache with a circuit breaker: after
// maxFailures consecutive errors the cache marks itself unhealthy and
// skips Redis until the next health probe succeeds.
type RateCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger

	mu           sync.RWMutex
	healthy      bool
	failureCount int
	lastProbe    time.Time

	maxFailures   int
	probeInterval time.Duration
}

// NewRateCache connects to Redis and returns a RateCache. A failed initial
// connection is not fatal; the cache starts in degraded mode and probes
// periodically.
func NewRateCache(cfg config.RedisConfig, ttl time.Duration, logger zerolog.Logger) (*RateCache, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("redis is not enabled in configuration")
	}

	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     poolSize,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	rc := &RateCache{
		client:        client,
		ttl:           ttl,
		logger:        logger.With().Str("component", "rate_cache").Logger(),
		maxFailures:   3,
		probeInterval: 30 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		rc.logger.Warn().Err(err).Msg("Initial Redis connection failed, starting in degraded mode")
		return rc, nil
	}

	rc.healthy = true
	rc.lastProbe = time.Now()
	rc.logger.Info().Str("address", cfg.Address).Msg("Redis connected")

	return rc, nil
}

// IsHealthy reports whether Redis is currently usable.
func (rc *RateCache) IsHealthy() bool {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return rc.healthy
}

func (rc *RateCache) recordFailure() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	rc.failureCount++
	if rc.failureCount >= rc.maxFailures && rc.healthy {
		rc.logger.Warn().Int("failures", rc.failureCount).Msg("Redis marked unhealthy")
		rc.healthy = false
	}
}

func (rc *RateCache) recordSuccess() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if !rc.healthy {
		rc.logger.Info().Msg("Redis recovered")
	}
	rc.failureCount = 0
	rc.healthy = true
}

// shouldProbe reports whether an unhealthy cache is due for a retry.
func (rc *RateCache) shouldProbe() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.healthy {
		return true
	}
	if time.Since(rc.lastProbe) >= rc.probeInterval {
		rc.lastProbe = time.Now()
		return true
	}
	return false
}

// GetRate looks up a cached rate. A miss, an unhealthy connection, or a
// decode failure all return ok=false so the caller falls through to the
// next tier.
func (rc *RateCache) GetRate(ctx context.Context, base, quote string) (*forex.Rate, bool) {
	if !rc.shouldProbe() {
		return nil, false
	}

	key := fmt.Sprintf(rateKeyPrefix, base, quote)
	data, err := rc.client.Get(ctx, key).Result()
	if err == redis.Nil {
		rc.recordSuccess()
		return nil, false
	}
	if err != nil {
		rc.recordFailure()
		return nil, false
	}
	rc.recordSuccess()

	var rate forex.Rate
	if err := json.Unmarshal([]byte(data), &rate); err != nil {
		rc.logger.Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		rc.client.Del(ctx, key)
		return nil, false
	}

	return &rate, true
}

// SetRate stores a rate with the configured TTL. Failures are recorded
// but not surfaced; the in-process cache still holds the rate.
func (rc *RateCache) SetRate(ctx context.Context, rate *forex.Rate) {
	if rate == nil || !rc.shouldProbe() {
		return
	}

	data, err := json.Marshal(rate)
	if err != nil {
		return
	}

	key := fmt.Sprintf(rateKeyPrefix, rate.BaseCurrency, rate.QuoteCurrency)
	if err := rc.client.Set(ctx, key, data, rc.ttl).Err(); err != nil {
		rc.recordFailure()
		return
	}
	rc.recordSuccess()
}

// Close releases the Redis connection pool.
func (rc *RateCache) Close() error {
	return rc.client.Close()
}
