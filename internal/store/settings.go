package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aravn/habitboard/internal/model"
)

var backupKeys = []string{
	"backup_enabled",
	"backup_schedule_hour",
	"backup_retention_days",
	"backup_passphrase_salt",
}

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("setting %q not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *SettingsStore) GetBackupSettings() (map[string]string, error) {
	settings := make(map[string]string)
	for _, key := range backupKeys {
		var value string
		err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get backup setting %q: %w", key, err)
		}
		settings[key] = value
	}
	return settings, nil
}

// categoryColorsKey matches the SPA's localStorage key so exported data and
// server-side state name the same thing.
func categoryColorsKey(person string) string {
	return "categoryColors_" + person
}

// GetCategoryColors returns a person's color override map. Absent means no
// overrides yet; stale categories are kept on purpose.
func (s *SettingsStore) GetCategoryColors(person string) (map[string]string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, categoryColorsKey(person)).Scan(&value)
	if err == sql.ErrNoRows {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category colors: %w", err)
	}

	colors := make(map[string]string)
	if err := json.Unmarshal([]byte(value), &colors); err != nil {
		return nil, fmt.Errorf("decode category colors: %w", err)
	}
	return colors, nil
}

// SetCategoryColor records one override, preserving the rest of the map.
func (s *SettingsStore) SetCategoryColor(person, category, color string) (map[string]string, error) {
	colors, err := s.GetCategoryColors(person)
	if err != nil {
		return nil, err
	}
	colors[category] = color

	data, err := json.Marshal(colors)
	if err != nil {
		return nil, fmt.Errorf("encode category colors: %w", err)
	}
	if err := s.Set(categoryColorsKey(person), string(data)); err != nil {
		return nil, err
	}
	return colors, nil
}

// DeleteCategoryColor drops one override, falling the category back to its
// palette default.
func (s *SettingsStore) DeleteCategoryColor(person, category string) (map[string]string, error) {
	colors, err := s.GetCategoryColors(person)
	if err != nil {
		return nil, err
	}
	delete(colors, category)

	data, err := json.Marshal(colors)
	if err != nil {
		return nil, fmt.Errorf("encode category colors: %w", err)
	}
	if err := s.Set(categoryColorsKey(person), string(data)); err != nil {
		return nil, err
	}
	return colors, nil
}

func pushPrefsKey(person string) string {
	return "pushPrefs_" + person
}

func (s *SettingsStore) GetPushPreferences(person string) (model.PushPreferences, error) {
	prefs := model.PushPreferences{Person: person, ReminderHour: 19}

	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, pushPrefsKey(person)).Scan(&value)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		return prefs, fmt.Errorf("get push preferences: %w", err)
	}

	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return prefs, fmt.Errorf("decode push preferences: %w", err)
	}
	prefs.Person = person
	return prefs, nil
}

func (s *SettingsStore) SetPushPreferences(prefs model.PushPreferences) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode push preferences: %w", err)
	}
	return s.Set(pushPrefsKey(prefs.Person), string(data))
}
