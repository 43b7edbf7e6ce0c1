package schedule

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDateKeyZeroPadded(t *testing.T) {
	d := time.Date(2024, 3, 7, 23, 59, 0, 0, time.Local)
	if got := FormatDateKey(d); got != "2024-03-07" {
		t.Errorf("FormatDateKey = %q, want %q", got, "2024-03-07")
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
		time.Date(2024, 2, 29, 14, 30, 0, 0, time.Local), // leap day, midday
		time.Date(1999, 12, 31, 23, 59, 59, 0, time.Local),
		time.Date(2026, 9, 1, 0, 0, 1, 0, time.Local),
	}
	for _, d := range dates {
		key := FormatDateKey(d)
		parsed, err := ParseDateKey(key)
		if err != nil {
			t.Fatalf("ParseDateKey(%q): %v", key, err)
		}
		if parsed.Year() != d.Year() || parsed.Month() != d.Month() || parsed.Day() != d.Day() {
			t.Errorf("round trip of %v gave %v", d, parsed)
		}
		if parsed.Hour() != 0 || parsed.Minute() != 0 {
			t.Errorf("ParseDateKey(%q) not at midnight: %v", key, parsed)
		}
	}
}

func TestParseDateKeyRejectsBadKeys(t *testing.T) {
	bad := []string{"", "2024", "2024-13-01", "2024-02-31", "24-02-01", "2024/02/01", "2024-02-01T00:00"}
	for _, key := range bad {
		if _, err := ParseDateKey(key); !errors.Is(err, ErrInvalidDateKey) {
			t.Errorf("ParseDateKey(%q) err = %v, want ErrInvalidDateKey", key, err)
		}
	}
}

func TestScheduledOnKeywords(t *testing.T) {
	// 2024-01-07 is a Sunday; the following days walk through the week.
	week := make([]time.Time, 7)
	for i := range week {
		week[i] = time.Date(2024, 1, 7+i, 0, 0, 0, 0, time.Local)
	}

	for i, d := range week {
		if !ScheduledOn("daily", d) {
			t.Errorf("daily should match %v", d)
		}
		isWeekday := i >= 1 && i <= 5
		if got := ScheduledOn("weekdays", d); got != isWeekday {
			t.Errorf("weekdays on %s = %v, want %v", d.Weekday(), got, isWeekday)
		}
		if got := ScheduledOn("weekends", d); got != !isWeekday {
			t.Errorf("weekends on %s = %v, want %v", d.Weekday(), got, !isWeekday)
		}
	}
}

func TestScheduledOnTokenSet(t *testing.T) {
	want := map[time.Weekday]bool{
		time.Sunday:    false,
		time.Monday:    true,
		time.Tuesday:   false,
		time.Wednesday: true,
		time.Thursday:  false,
		time.Friday:    true,
		time.Saturday:  false,
	}
	for i := 0; i < 7; i++ {
		d := time.Date(2024, 1, 7+i, 0, 0, 0, 0, time.Local)
		if got := ScheduledOn("mon,wed,fri", d); got != want[d.Weekday()] {
			t.Errorf("mon,wed,fri on %s = %v, want %v", d.Weekday(), got, want[d.Weekday()])
		}
	}
}

func TestScheduledOnUnknownTokensAreInert(t *testing.T) {
	mon := time.Date(2024, 1, 8, 0, 0, 0, 0, time.Local)
	if ScheduledOn("xyz,never", mon) {
		t.Error("unknown tokens should never match")
	}
	if !ScheduledOn("xyz,mon", mon) {
		t.Error("valid token should still match alongside unknown ones")
	}
	if ScheduledOn("", mon) {
		t.Error("empty rule should never match")
	}
}

func TestValidateRule(t *testing.T) {
	valid := []string{"daily", "weekdays", "weekends", "mon", "mon,wed,fri", "fri, mon", "sun,sun"}
	for _, r := range valid {
		if err := ValidateRule(r); err != nil {
			t.Errorf("ValidateRule(%q) = %v, want nil", r, err)
		}
	}

	invalid := []string{"", ",", "monday", "mon,funday", "DAILY"}
	for _, r := range invalid {
		if err := ValidateRule(r); !errors.Is(err, ErrInvalidScheduleRule) {
			t.Errorf("ValidateRule(%q) = %v, want ErrInvalidScheduleRule", r, err)
		}
	}
}
