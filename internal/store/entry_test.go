package store

import (
	"testing"

	"github.com/aravn/habitboard/internal/model"
)

func TestEntryUpsertLastWriteWins(t *testing.T) {
	db := setupTestDB(t)
	es := NewEntryStore(db)
	addPerson(t, db, "maya")

	first, err := es.Upsert("2024-01-01", "maya", "Learning", "Reading", model.StatusCompleted)
	if err != nil {
		t.Fatalf("upsert entry: %v", err)
	}

	second, err := es.Upsert("2024-01-01", "maya", "Learning", "Reading", model.StatusMissed)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: %d != %d", second.ID, first.ID)
	}
	if second.Status != model.StatusMissed {
		t.Errorf("status = %q, want %q", second.Status, model.StatusMissed)
	}

	entries, err := es.ListByPerson("maya")
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one row per (person, date, habit), got %d", len(entries))
	}
}

func TestEntryListByDateRange(t *testing.T) {
	db := setupTestDB(t)
	es := NewEntryStore(db)
	addPerson(t, db, "maya")

	dates := []string{"2024-01-01", "2024-01-15", "2024-01-31", "2024-02-01"}
	for _, d := range dates {
		if _, err := es.Upsert(d, "maya", "Learning", "Reading", model.StatusCompleted); err != nil {
			t.Fatalf("upsert %s: %v", d, err)
		}
	}

	entries, err := es.ListByDateRange("maya", "2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Date != "2024-01-01" || entries[2].Date != "2024-01-31" {
		t.Errorf("range bounds not inclusive: %s .. %s", entries[0].Date, entries[2].Date)
	}
}

func TestEntryDelete(t *testing.T) {
	db := setupTestDB(t)
	es := NewEntryStore(db)
	addPerson(t, db, "maya")

	e, err := es.Upsert("2024-01-01", "maya", "Learning", "Reading", model.StatusRest)
	if err != nil {
		t.Fatalf("upsert entry: %v", err)
	}
	if err := es.Delete(e.ID); err != nil {
		t.Fatalf("delete entry: %v", err)
	}
	entries, err := es.ListByPerson("maya")
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entry survived delete: %+v", entries)
	}
}
