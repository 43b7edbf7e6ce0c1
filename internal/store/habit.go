package store

import (
	"database/sql"
	"fmt"

	"github.com/aravn/habitboard/internal/model"
)

type HabitStore struct {
	db *sql.DB
}

func NewHabitStore(db *sql.DB) *HabitStore {
	return &HabitStore{db: db}
}

const habitCols = `id, person, category, name, schedule, required, created_at, updated_at`

func scanHabit(scanner interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	err := scanner.Scan(&h.ID, &h.Person, &h.Category, &h.Name, &h.Schedule, &h.Required, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HabitStore) List() ([]model.Habit, error) {
	rows, err := s.db.Query(`SELECT ` + habitCols + ` FROM habits ORDER BY person ASC, category ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

func (s *HabitStore) ListByPerson(person string) ([]model.Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitCols+` FROM habits WHERE person = ? ORDER BY category ASC, name ASC`,
		person,
	)
	if err != nil {
		return nil, fmt.Errorf("list habits by person: %w", err)
	}
	defer rows.Close()
	return collectHabits(rows)
}

func collectHabits(rows *sql.Rows) ([]model.Habit, error) {
	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

func (s *HabitStore) GetByID(id int64) (*model.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitCols+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

// Get looks a habit up by its logical identity. The unique index on
// (person, name) is case-insensitive, so the lookup is too.
func (s *HabitStore) Get(person, name string) (*model.Habit, error) {
	row := s.db.QueryRow(
		`SELECT `+habitCols+` FROM habits WHERE person = ? AND name = ? COLLATE NOCASE`,
		person, name,
	)
	h, err := scanHabit(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return h, nil
}

func (s *HabitStore) Create(person, category, name, schedule string, required bool) (*model.Habit, error) {
	result, err := s.db.Exec(
		`INSERT INTO habits (person, category, name, schedule, required) VALUES (?, ?, ?, ?, ?)`,
		person, category, name, schedule, required,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Rename updates a habit's name, category, and schedule, and rewrites the
// habit's historical entries when the name changes. Both updates run in one
// transaction so a failure leaves no orphaned entries.
func (s *HabitStore) Rename(person, originalName, newName, newCategory, newSchedule string) (*model.Habit, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE habits SET name = ?, category = ?, schedule = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE person = ? AND name = ?`,
		newName, newCategory, newSchedule, person, originalName,
	)
	if err != nil {
		return nil, fmt.Errorf("update habit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("habit %q not found for %q", originalName, person)
	}

	if newName != originalName {
		if _, err := tx.Exec(
			`UPDATE entries SET habit = ?, category = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE person = ? AND habit = ?`,
			newName, newCategory, person, originalName,
		); err != nil {
			return nil, fmt.Errorf("cascade entries: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rename: %w", err)
	}
	return s.Get(person, newName)
}

// DeleteCascade removes a habit and every entry recorded for it, in one
// transaction. Entries for other persons under the same habit name survive.
func (s *HabitStore) DeleteCascade(person, name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM habits WHERE person = ? AND name = ?`, person, name)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("habit %q not found for %q", name, person)
	}

	if _, err := tx.Exec(`DELETE FROM entries WHERE person = ? AND habit = ?`, person, name); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}

	return tx.Commit()
}
