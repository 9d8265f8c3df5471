package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/mimic/internal/store"
)

// SettingsRepository is the settings table as a store.Backend.
type SettingsRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Backend = (*SettingsRepository)(nil)

// Load returns the value stored under key.
func (r *SettingsRepository) Load(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("loading setting %s: %w", key, err)
	}
	return value, true, nil
}

// Save upserts value under key.
func (r *SettingsRepository) Save(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, r.clock().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
