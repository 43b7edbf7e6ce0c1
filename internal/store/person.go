package store

import (
	"database/sql"
	"fmt"

	"github.com/aravn/habitboard/internal/model"
)

type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

const personCols = `name, avatar_emoji, color, pin_hash != '', sort_order, created_at, updated_at`

func scanPerson(scanner interface{ Scan(...any) error }) (*model.Person, error) {
	var p model.Person
	err := scanner.Scan(&p.Name, &p.AvatarEmoji, &p.Color, &p.HasPIN, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PersonStore) List() ([]model.Person, error) {
	rows, err := s.db.Query(`SELECT ` + personCols + ` FROM persons ORDER BY sort_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var persons []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, *p)
	}
	return persons, rows.Err()
}

func (s *PersonStore) Get(name string) (*model.Person, error) {
	row := s.db.QueryRow(`SELECT `+personCols+` FROM persons WHERE name = ?`, name)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return p, nil
}

func (s *PersonStore) Create(name, avatarEmoji, color string) (*model.Person, error) {
	var maxOrder int
	if err := s.db.QueryRow(`SELECT COALESCE(MAX(sort_order), -1) FROM persons`).Scan(&maxOrder); err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	_, err := s.db.Exec(
		`INSERT INTO persons (name, avatar_emoji, color, sort_order) VALUES (?, ?, ?, ?)`,
		name, avatarEmoji, color, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	return s.Get(name)
}

func (s *PersonStore) Update(name, avatarEmoji, color string) (*model.Person, error) {
	_, err := s.db.Exec(
		`UPDATE persons SET avatar_emoji = ?, color = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
		avatarEmoji, color, name,
	)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", err)
	}
	return s.Get(name)
}

// Delete removes a person; habits, entries, and push subscriptions follow via
// foreign-key cascade.
func (s *PersonStore) Delete(name string) error {
	_, err := s.db.Exec(`DELETE FROM persons WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

func (s *PersonStore) SetPIN(name, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE persons SET pin_hash = ? WHERE name = ?`, hashedPIN, name)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	return nil
}

func (s *PersonStore) ClearPIN(name string) error {
	_, err := s.db.Exec(`UPDATE persons SET pin_hash = '' WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("clear pin: %w", err)
	}
	return nil
}

func (s *PersonStore) GetPINHash(name string) (string, error) {
	var hash string
	err := s.db.QueryRow(`SELECT pin_hash FROM persons WHERE name = ?`, name).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("person %q not found", name)
	}
	if err != nil {
		return "", fmt.Errorf("query pin: %w", err)
	}
	return hash, nil
}
