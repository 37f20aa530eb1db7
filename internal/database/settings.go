package database

import (
	"context"
	"fmt"
	"time"

	"eventdesk/internal/models"
)

var settingsDefaults = map[string]string{
	models.SettingBrandName:        "EventDesk",
	models.SettingContactPhone:     "",
	models.SettingContactEmail:     "",
	models.SettingContactInstagram: "",
	models.SettingContactLinkedin:  "",
}

// GetSettings returns the site settings. Keys missing from the table fall
// back to their defaults, so a fresh database still renders a usable site.
func (db *DB) GetSettings(ctx context.Context) (*models.SiteSettings, error) {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM app_settings")
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string, len(settingsDefaults))
	for key, def := range settingsDefaults {
		values[key] = def
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		if _, known := settingsDefaults[key]; known {
			values[key] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &models.SiteSettings{
		BrandName:        values[models.SettingBrandName],
		ContactPhone:     values[models.SettingContactPhone],
		ContactEmail:     values[models.SettingContactEmail],
		ContactInstagram: values[models.SettingContactInstagram],
		ContactLinkedin:  values[models.SettingContactLinkedin],
	}, nil
}

// UpsertSettings writes the full settings object in one transaction.
func (db *DB) UpsertSettings(ctx context.Context, s *models.SiteSettings) error {
	pairs := map[string]string{
		models.SettingBrandName:        s.BrandName,
		models.SettingContactPhone:     s.ContactPhone,
		models.SettingContactEmail:     s.ContactEmail,
		models.SettingContactInstagram: s.ContactInstagram,
		models.SettingContactLinkedin:  s.ContactLinkedin,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for key, value := range pairs {
		_, err := tx.ExecContext(ctx, `
            INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
            ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, now)
		if err != nil {
			return fmt.Errorf("failed to upsert setting %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}
