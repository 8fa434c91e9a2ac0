// internal/store/settings.go
package store

import (
	"context"
	"database/sql"

	"github.com/goccy/go-json"

	"roi-navigator/internal/common/errors"
	"roi-navigator/internal/models"
)

// The single settings document every calculation reads.
const globalConfigKey = "global_config"

// SettingsStore persists the global rate configuration.
type SettingsStore struct {
	db *sql.DB
}

// NewSettingsStore creates a settings store over the given database.
func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetGlobalRates loads the saved rate document. found is false when no
// document has been saved yet; callers fall back to built-in defaults.
func (s *SettingsStore) GetGlobalRates(ctx context.Context) (*models.GlobalRateConfig, bool, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx, `SELECT document FROM settings WHERE key = $1`, globalConfigKey).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.NewStoreError("get settings", err)
	}

	var cfg models.GlobalRateConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, false, errors.NewStoreError("get settings", err)
	}

	return &cfg, true, nil
}

// PutGlobalRates upserts the rate document.
func (s *SettingsStore) PutGlobalRates(ctx context.Context, cfg *models.GlobalRateConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return errors.NewStoreError("put settings", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, document) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET document = EXCLUDED.document`,
		globalConfigKey, doc,
	)
	if err != nil {
		return errors.NewStoreError("put settings", err)
	}

	return nil
}
