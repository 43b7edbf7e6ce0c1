package store

import (
	"database/sql"
	"fmt"

	"github.com/aravn/habitboard/internal/model"
)

type EntryStore struct {
	db *sql.DB
}

func NewEntryStore(db *sql.DB) *EntryStore {
	return &EntryStore{db: db}
}

const entryCols = `id, date, person, category, habit, status, updated_at`

func scanEntry(scanner interface{ Scan(...any) error }) (*model.Entry, error) {
	var e model.Entry
	err := scanner.Scan(&e.ID, &e.Date, &e.Person, &e.Category, &e.Habit, &e.Status, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Upsert writes a day's status for one habit. At most one row exists per
// (person, date, habit); a second write for the same key replaces the first.
func (s *EntryStore) Upsert(date, person, category, habit string, status model.Status) (*model.Entry, error) {
	_, err := s.db.Exec(
		`INSERT INTO entries (date, person, category, habit, status) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(person, date, habit) DO UPDATE SET
		     status = excluded.status,
		     category = excluded.category,
		     updated_at = CURRENT_TIMESTAMP`,
		date, person, category, habit, status,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}

	row := s.db.QueryRow(
		`SELECT `+entryCols+` FROM entries WHERE person = ? AND date = ? AND habit = ?`,
		person, date, habit,
	)
	return scanEntry(row)
}

func (s *EntryStore) List() ([]model.Entry, error) {
	rows, err := s.db.Query(`SELECT ` + entryCols + ` FROM entries ORDER BY date ASC, person ASC, habit ASC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *EntryStore) ListByPerson(person string) ([]model.Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM entries WHERE person = ? ORDER BY date ASC, habit ASC`,
		person,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries by person: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

// ListByDateRange returns a person's entries with from <= date <= to.
// Date keys sort lexically in calendar order, so BETWEEN does the right thing.
func (s *EntryStore) ListByDateRange(person, from, to string) ([]model.Entry, error) {
	rows, err := s.db.Query(
		`SELECT `+entryCols+` FROM entries WHERE person = ? AND date BETWEEN ? AND ? ORDER BY date ASC, habit ASC`,
		person, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries by range: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *EntryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}
