package services_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/haxllo/ar-alphaya-jewellery-sub002/models"
	"github.com/haxllo/ar-alphaya-jewellery-sub002/services"
)

// mockRatesProvider counts fetches and can be flipped into failure mode.
type mockRatesProvider struct {
	fetches int
	fail    bool
	rates   map[string]float64
}

func (m *mockRatesProvider) FetchRates(_ context.Context, base string) (*models.RateSnapshot, error) {
	m.fetches++
	if m.fail {
		return nil, fmt.Errorf("rates API returned %d", http.StatusInternalServerError)
	}
	return &models.RateSnapshot{
		Base:  base,
		Rates: m.rates,
	}, nil
}

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(provider *mockRatesProvider, ttl time.Duration) (*services.RateCache, *fakeClock) {
	logger, _ := zap.NewDevelopment()
	clock := &fakeClock{t: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	cache := services.NewRateCache(provider, "USD", ttl, logger).WithClock(clock.Now)
	return cache, clock
}

func TestRateCache_MissThenHit(t *testing.T) {
	provider := &mockRatesProvider{rates: map[string]float64{"LKR": 300}}
	cache, clock := newTestCache(provider, time.Hour)

	snap1, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	assert.False(t, cached)
	assert.Equal(t, 1, provider.fetches)
	assert.Equal(t, clock.Now(), snap1.FetchedAt)

	// Second call within TTL returns the identical snapshot without a fetch.
	clock.Advance(30 * time.Minute)
	snap2, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	assert.True(t, cached)
	assert.Equal(t, 1, provider.fetches)
	assert.Same(t, snap1, snap2)
}

func TestRateCache_TTLExpiryRefetches(t *testing.T) {
	provider := &mockRatesProvider{rates: map[string]float64{"LKR": 300}}
	cache, clock := newTestCache(provider, time.Hour)

	snap1, _, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)

	clock.Advance(time.Hour + time.Second)
	snap2, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	assert.False(t, cached)
	assert.Equal(t, 2, provider.fetches)
	assert.True(t, snap2.FetchedAt.After(snap1.FetchedAt))
}

func TestRateCache_UpstreamFailure(t *testing.T) {
	provider := &mockRatesProvider{fail: true}
	cache, _ := newTestCache(provider, time.Hour)

	snap, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, snap)
	assert.False(t, cached)
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}

func TestRateCache_FailureLeavesSnapshotUntouched(t *testing.T) {
	provider := &mockRatesProvider{rates: map[string]float64{"LKR": 300}}
	cache, clock := newTestCache(provider, time.Hour)

	snap1, _, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)

	// Expire the snapshot, then make the upstream fail.
	clock.Advance(2 * time.Hour)
	provider.fail = true
	_, _, appErr = cache.GetRates(context.Background())
	assert.NotNil(t, appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)

	// The prior snapshot is still held, unchanged: stepping back inside its
	// TTL window serves it again.
	clock.Advance(-90 * time.Minute)
	snap2, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	assert.True(t, cached)
	assert.Same(t, snap1, snap2)
	assert.Equal(t, snap1.FetchedAt, snap2.FetchedAt)
}

func TestRateCache_ClearForcesFetch(t *testing.T) {
	provider := &mockRatesProvider{rates: map[string]float64{"LKR": 300}}
	cache, _ := newTestCache(provider, time.Hour)

	_, _, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	cache.Clear()

	_, cached, appErr := cache.GetRates(context.Background())
	assert.Nil(t, appErr)
	assert.False(t, cached)
	assert.Equal(t, 2, provider.fetches)
}
