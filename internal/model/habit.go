package model

import "time"

// Habit is a recurring task definition owned by a person.
//
// The logical identity is (Person, Name), case-insensitive on Name; the ID is
// a storage surrogate and carries no meaning for the core rules.
type Habit struct {
	ID        int64     `json:"id"`
	Person    string    `json:"person"`
	Category  string    `json:"category"`
	Name      string    `json:"habit"`
	Schedule  string    `json:"schedule"`
	Required  bool      `json:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
