// internal/cache/cache.go

// Package cache provides the TTL memo for the global rate document.
// The store is only consulted when the cached copy is missing or stale;
// fetch failures always propagate to the caller instead of serving a
// stale value.
package cache

import (
	"context"

	"roi-navigator/internal/models"
)

// RateCache is the memo backend. Get reports ok=false when no fresh
// value is available.
type RateCache interface {
	Get(ctx context.Context) (*models.GlobalRateConfig, bool, error)
	Set(ctx context.Context, cfg *models.GlobalRateConfig) error
	Invalidate(ctx context.Context) error
}
