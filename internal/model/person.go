package model

import "time"

// Person is a family member profile. The SPA shows one profile per person and
// all habits and entries hang off the person's name.
type Person struct {
	Name        string    `json:"name"`
	AvatarEmoji string    `json:"avatar_emoji"`
	Color       string    `json:"color"`
	HasPIN      bool      `json:"has_pin"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
