// internal/engine/rates_test.go
package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roi-navigator/internal/cache"
	apperrors "roi-navigator/internal/common/errors"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/models"
)

type fakeSettings struct {
	cfg   *models.GlobalRateConfig
	found bool
	err   error
	calls int
}

func (f *fakeSettings) GetGlobalRates(ctx context.Context) (*models.GlobalRateConfig, bool, error) {
	f.calls++
	return f.cfg, f.found, f.err
}

func customRates() *models.GlobalRateConfig {
	return &models.GlobalRateConfig{
		TeamComposition: []models.TeamMember{{Role: "developer", Rate: 95, Share: 1.0}},
		InfraCosts:      map[string]float64{"rpa_license_annual": 12000},
		Baselines:       models.Baselines{Low: 80, Medium: 200, High: 400},
	}
}

func TestRateProvider_DefaultsWhenNoDocumentSaved(t *testing.T) {
	settings := &fakeSettings{found: false}
	provider := NewRateProvider(cache.NewMemory(5*time.Minute), settings, logger.NewNoOpLogger())

	cfg, err := provider.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRateConfig(), cfg)
}

func TestRateProvider_ServesCachedValueWithinTTL(t *testing.T) {
	settings := &fakeSettings{cfg: customRates(), found: true}
	provider := NewRateProvider(cache.NewMemory(5*time.Minute), settings, logger.NewNoOpLogger())

	for i := 0; i < 5; i++ {
		cfg, err := provider.Current(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 95.0, cfg.TeamComposition[0].Rate)
	}

	assert.Equal(t, 1, settings.calls)
}

func TestRateProvider_RefetchesAfterTTLExpiry(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memo := cache.NewMemoryWithClock(5*time.Minute, func() time.Time { return current })

	settings := &fakeSettings{cfg: customRates(), found: true}
	provider := NewRateProvider(memo, settings, logger.NewNoOpLogger())

	_, err := provider.Current(context.Background())
	require.NoError(t, err)

	current = current.Add(5 * time.Minute)

	_, err = provider.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, settings.calls)
}

func TestRateProvider_FetchErrorPropagatesInsteadOfStaleServe(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	memo := cache.NewMemoryWithClock(5*time.Minute, func() time.Time { return current })

	settings := &fakeSettings{cfg: customRates(), found: true}
	provider := NewRateProvider(memo, settings, logger.NewNoOpLogger())

	_, err := provider.Current(context.Background())
	require.NoError(t, err)

	// Store goes away after the cache expires. The old value must not
	// be served.
	current = current.Add(6 * time.Minute)
	settings.err = fmt.Errorf("connection refused")

	_, err = provider.Current(context.Background())
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.Contains(t, err.Error(), "CONFIG_FETCH_FAILED")
}

func TestRateProvider_InvalidateForcesRefetch(t *testing.T) {
	settings := &fakeSettings{cfg: customRates(), found: true}
	provider := NewRateProvider(cache.NewMemory(5*time.Minute), settings, logger.NewNoOpLogger())

	_, err := provider.Current(context.Background())
	require.NoError(t, err)

	require.NoError(t, provider.Invalidate(context.Background()))

	settings.cfg = DefaultRateConfig()

	cfg, err := provider.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 120.0, cfg.TeamComposition[0].Rate)
	assert.Equal(t, 2, settings.calls)
}
