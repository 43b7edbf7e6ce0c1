package store

import (
	"testing"

	"github.com/aravn/habitboard/internal/model"
)

func TestSettingsGetSet(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)

	if _, err := ss.Get("missing"); err == nil {
		t.Error("expected error for missing key")
	}

	if err := ss.Set("backup_enabled", "true"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := ss.Set("backup_enabled", "false"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, err := ss.Get("backup_enabled")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != "false" {
		t.Errorf("value = %q, want %q", v, "false")
	}
}

func TestCategoryColors(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	addPerson(t, db, "maya")

	// No overrides saved yet: empty map, not an error.
	colors, err := ss.GetCategoryColors("maya")
	if err != nil {
		t.Fatalf("get colors: %v", err)
	}
	if len(colors) != 0 {
		t.Errorf("expected empty map, got %v", colors)
	}

	colors, err = ss.SetCategoryColor("maya", "Fitness", "#ff5722")
	if err != nil {
		t.Fatalf("set color: %v", err)
	}
	if colors["Fitness"] != "#ff5722" {
		t.Errorf("colors = %v", colors)
	}

	if _, err := ss.SetCategoryColor("maya", "Learning", "#667eea"); err != nil {
		t.Fatalf("set second color: %v", err)
	}

	colors, err = ss.DeleteCategoryColor("maya", "Fitness")
	if err != nil {
		t.Fatalf("delete color: %v", err)
	}
	if _, ok := colors["Fitness"]; ok {
		t.Error("Fitness override survived delete")
	}
	if colors["Learning"] != "#667eea" {
		t.Errorf("unrelated override lost: %v", colors)
	}
}

func TestCategoryColorsPerPerson(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	addPerson(t, db, "maya")
	addPerson(t, db, "leo")

	if _, err := ss.SetCategoryColor("maya", "Fitness", "#ff5722"); err != nil {
		t.Fatalf("set color: %v", err)
	}

	colors, err := ss.GetCategoryColors("leo")
	if err != nil {
		t.Fatalf("get colors: %v", err)
	}
	if len(colors) != 0 {
		t.Errorf("override leaked across persons: %v", colors)
	}
}

func TestPushPreferencesDefaults(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSettingsStore(db)
	addPerson(t, db, "maya")

	prefs, err := ss.GetPushPreferences("maya")
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if prefs.RemindersOn {
		t.Error("reminders default to off")
	}
	if prefs.ReminderHour != 19 {
		t.Errorf("reminder hour = %d, want 19", prefs.ReminderHour)
	}

	prefs.RemindersOn = true
	prefs.ReminderHour = 20
	if err := ss.SetPushPreferences(prefs); err != nil {
		t.Fatalf("set prefs: %v", err)
	}

	got, err := ss.GetPushPreferences("maya")
	if err != nil {
		t.Fatalf("get prefs: %v", err)
	}
	if got != (model.PushPreferences{Person: "maya", RemindersOn: true, ReminderHour: 20}) {
		t.Errorf("prefs = %+v", got)
	}
}
