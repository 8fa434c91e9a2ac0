// internal/cache/memory.go
package cache

import (
	"context"
	"sync"
	"time"

	"roi-navigator/internal/models"
)

// Memory is a process-local RateCache. The TTL window starts at the
// last successful Set, not at first access.
type Memory struct {
	mu       sync.RWMutex
	value    *models.GlobalRateConfig
	storedAt time.Time
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory creates a memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return NewMemoryWithClock(ttl, time.Now)
}

// NewMemoryWithClock creates a memory cache with an injectable clock.
func NewMemoryWithClock(ttl time.Duration, now func() time.Time) *Memory {
	return &Memory{ttl: ttl, now: now}
}

func (m *Memory) Get(ctx context.Context) (*models.GlobalRateConfig, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.value == nil {
		return nil, false, nil
	}
	if m.now().Sub(m.storedAt) >= m.ttl {
		return nil, false, nil
	}

	return m.value, true, nil
}

func (m *Memory) Set(ctx context.Context, cfg *models.GlobalRateConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = cfg
	m.storedAt = m.now()
	return nil
}

func (m *Memory) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.value = nil
	return nil
}
