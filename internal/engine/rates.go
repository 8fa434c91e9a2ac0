// internal/engine/rates.go
package engine

import (
	"context"

	"roi-navigator/internal/cache"
	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/common/logger"
	"roi-navigator/internal/common/metrics"
	"roi-navigator/internal/models"
)

// Default rate values used when no settings document has been saved.
const (
	defaultHourlyRate     = 120.0
	defaultRPALicenseCost = 15000.0
	defaultVMCost         = 5000.0
	defaultLowHours       = 100.0
	defaultMediumHours    = 240.0
	defaultHighHours      = 480.0
)

// DefaultRateConfig returns the built-in pricing document. It is the
// only place defaults are defined; the provider and the settings API
// both use it.
func DefaultRateConfig() *models.GlobalRateConfig {
	return &models.GlobalRateConfig{
		TeamComposition: []models.TeamMember{
			{Role: "developer", Rate: defaultHourlyRate, Share: 1.0},
		},
		InfraCosts: map[string]float64{
			"rpa_license_annual":     defaultRPALicenseCost,
			"virtual_machine_annual": defaultVMCost,
		},
		Baselines: models.Baselines{
			Low:    defaultLowHours,
			Medium: defaultMediumHours,
			High:   defaultHighHours,
		},
	}
}

// SettingsSource loads the persisted rate document. ok is false when
// no document has been saved yet.
type SettingsSource interface {
	GetGlobalRates(ctx context.Context) (*models.GlobalRateConfig, bool, error)
}

// RateProvider serves the global rate document through a TTL cache.
// A fetch failure propagates to the caller; an expired cache entry is
// never served in its place.
type RateProvider struct {
	cache    cache.RateCache
	settings SettingsSource
	logger   logger.Logger
}

// NewRateProvider creates a rate provider over the given cache backend
// and settings source.
func NewRateProvider(c cache.RateCache, settings SettingsSource, log logger.Logger) *RateProvider {
	return &RateProvider{cache: c, settings: settings, logger: log}
}

// Current returns the active rate document, consulting the cache first.
// When the store has no saved document the built-in defaults apply.
func (p *RateProvider) Current(ctx context.Context) (*models.GlobalRateConfig, error) {
	cached, ok, err := p.cache.Get(ctx)
	if err != nil {
		p.logger.WithError(err).Warn("Rate cache read failed, falling through to store", nil)
	} else if ok {
		metrics.RateCacheHits.Inc()
		return cached, nil
	}

	metrics.RateCacheMisses.Inc()

	cfg, found, err := p.settings.GetGlobalRates(ctx)
	if err != nil {
		return nil, errors.NewConfigFetchError(err)
	}
	if !found {
		cfg = DefaultRateConfig()
	}

	if err := p.cache.Set(ctx, cfg); err != nil {
		p.logger.WithError(err).Warn("Rate cache write failed", nil)
	}

	return cfg, nil
}

// Invalidate drops the cached document so the next read reflects a
// settings update immediately.
func (p *RateProvider) Invalidate(ctx context.Context) error {
	return p.cache.Invalidate(ctx)
}
