package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/docgrab"
)

// Compile-time interface verification.
var _ docgrab.PreferenceService = (*PreferenceService)(nil)

// PreferenceService implements docgrab.PreferenceService using SQLite.
type PreferenceService struct {
	db *DB
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(db *DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// FindPreferences returns the stored preferences applied over the defaults.
// Rows with keys this version does not know are ignored.
func (s *PreferenceService) FindPreferences(ctx context.Context) (*docgrab.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := docgrab.DefaultPreferences()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if err := prefs.Set(key, value); err != nil {
			if docgrab.ErrorCode(err) == docgrab.EINVALID {
				continue
			}
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetPreference validates and stores a single preference.
// Returns EINVALID for unknown keys or malformed values.
func (s *PreferenceService) SetPreference(ctx context.Context, key, value string) error {
	if err := docgrab.DefaultPreferences().Set(key, value); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}
