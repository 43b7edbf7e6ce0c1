package model

import "time"

// PushSubscription is a browser push endpoint registered by a device.
type PushSubscription struct {
	ID         int64     `json:"id"`
	Person     string    `json:"person"`
	Endpoint   string    `json:"endpoint"`
	P256dhKey  string    `json:"p256dh_key"`
	AuthKey    string    `json:"auth_key"`
	DeviceName string    `json:"device_name"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
}

// PushPreferences controls the evening reminder for one person.
type PushPreferences struct {
	Person       string `json:"person"`
	RemindersOn  bool   `json:"reminders_on"`
	ReminderHour int    `json:"reminder_hour"`
}
