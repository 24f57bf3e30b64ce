package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/haxllo/ar-alphaya-jewellery-sub002/errors"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/providers"
)

// RateCache holds at most one live RateSnapshot for the configured base
// currency and refreshes it from the provider once the TTL has elapsed.
//
// The snapshot is replaced wholesale on refresh. On upstream failure the
// previous snapshot is left untouched and the error is surfaced: stale rates
// are deliberately not served as a fallback.
type RateCache struct {
	provider providers.RatesProvider
	base     string
	ttl      time.Duration
	logger   *zap.Logger

	mu       sync.RWMutex
	snapshot *models.RateSnapshot

	// now is swappable so tests can drive the TTL clock deterministically.
	now func() time.Time
}

// NewRateCache creates a RateCache for the given base currency.
func NewRateCache(provider providers.RatesProvider, base string, ttl time.Duration, logger *zap.Logger) *RateCache {
	return &RateCache{
		provider: provider,
		base:     base,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the cache's clock. Intended for tests.
func (c *RateCache) WithClock(now func() time.Time) *RateCache {
	c.now = now
	return c
}

// Base returns the configured base currency.
func (c *RateCache) Base() string {
	return c.base
}

// GetRates returns the current snapshot, fetching a fresh one when the held
// snapshot is missing or older than the TTL. The second return value reports
// whether the snapshot came from the cache.
func (c *RateCache) GetRates(ctx context.Context) (*models.RateSnapshot, bool, *apperrors.Error) {
	c.mu.RLock()
	snap := c.snapshot
	c.mu.RUnlock()

	if snap != nil && c.now().Sub(snap.FetchedAt) < c.ttl {
		return snap, true, nil
	}

	fresh, err := c.provider.FetchRates(ctx, c.base)
	if err != nil {
		c.logger.Error("Rates fetch failed", zap.String("base", c.base), zap.Error(err))
		return nil, false, apperrors.ErrUpstreamUnavailable.Wrap(err)
	}
	fresh.FetchedAt = c.now()

	c.mu.Lock()
	// Concurrent refreshers all computed a fresh table; last writer wins,
	// but never replace a newer snapshot with an older one.
	if c.snapshot == nil || !fresh.FetchedAt.Before(c.snapshot.FetchedAt) {
		c.snapshot = fresh
	}
	snap = c.snapshot
	c.mu.Unlock()

	c.logger.Info("Rate snapshot refreshed",
		zap.String("base", c.base),
		zap.Int("currencies", len(snap.Rates)),
	)

	return snap, false, nil
}

// Clear drops the held snapshot. The next GetRates call fetches fresh rates.
func (c *RateCache) Clear() {
	c.mu.Lock()
	c.snapshot = nil
	c.mu.Unlock()
}
