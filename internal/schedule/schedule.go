// Package schedule holds the date-key and schedule-rule primitives shared by
// the stats, registry, and handler layers.
//
// A date key is the canonical YYYY-MM-DD form of a local calendar day. A
// schedule rule is either one of the keywords "daily", "weekdays", "weekends",
// or a comma-joined set of three-letter weekday tokens ("mon,wed,fri").
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateKey is returned when a date key is malformed or names an
// impossible calendar date.
var ErrInvalidDateKey = errors.New("invalid date key")

// ErrInvalidScheduleRule is returned when a rule is neither a keyword nor a
// non-empty set of valid weekday tokens.
var ErrInvalidScheduleRule = errors.New("invalid schedule rule")

const dateKeyLayout = "2006-01-02"

// weekday tokens indexed by time.Weekday (Sunday = 0).
var dayTokens = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// FormatDateKey renders the local calendar day of t as YYYY-MM-DD.
// It reads the local year/month/day fields directly, so a timestamp near
// midnight never shifts to a neighboring day the way a UTC conversion would.
func FormatDateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateKey parses a YYYY-MM-DD key into local midnight of that day.
// Malformed keys and impossible dates (2024-02-31) are rejected.
func ParseDateKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(dateKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateKey, key)
	}
	return t, nil
}

// ScheduledOn reports whether a habit with the given rule applies on date.
//
// Unknown tokens in a custom rule are inert: they never match, but they do
// not make the function fail. Every rule yields an answer for every date.
func ScheduledOn(rule string, date time.Time) bool {
	switch rule {
	case "daily":
		return true
	case "weekdays":
		wd := date.Weekday()
		return wd >= time.Monday && wd <= time.Friday
	case "weekends":
		wd := date.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	}

	today := dayTokens[date.Weekday()]
	for _, tok := range strings.Split(rule, ",") {
		if strings.TrimSpace(tok) == today {
			return true
		}
	}
	return false
}

// ValidateRule checks that rule is a keyword or a non-empty comma-joined set
// of valid weekday tokens. Duplicates and token order are irrelevant.
func ValidateRule(rule string) error {
	switch rule {
	case "daily", "weekdays", "weekends":
		return nil
	}

	tokens := strings.Split(rule, ",")
	seen := 0
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if !validToken(tok) {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidScheduleRule, tok)
		}
		seen++
	}
	if seen == 0 {
		return fmt.Errorf("%w: empty rule", ErrInvalidScheduleRule)
	}
	return nil
}

func validToken(tok string) bool {
	for _, d := range dayTokens {
		if tok == d {
			return true
		}
	}
	return false
}
