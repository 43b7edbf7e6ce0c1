package model

import "time"

// Status is a day's outcome for one habit. Days without an entry have no
// status at all; an explicit "missed" is a recorded miss.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusRest      Status = "rest"
	StatusMissed    Status = "missed"
)

// ValidStatus reports whether s is one of the closed status set.
func ValidStatus(s Status) bool {
	switch s {
	case StatusCompleted, StatusRest, StatusMissed:
		return true
	}
	return false
}

// Entry is a per-day status record for one habit. At most one entry exists
// per (Person, Date, Habit); writes are last-write-wins.
type Entry struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"` // DateKey, YYYY-MM-DD
	Person    string    `json:"person"`
	Category  string    `json:"category"`
	Habit     string    `json:"habit"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
