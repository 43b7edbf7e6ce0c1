package stats

import (
	"testing"
	"time"

	"github.com/aravn/habitboard/internal/model"
)

func habit(person, name, sched string) model.Habit {
	return model.Habit{Person: person, Category: "Test", Name: name, Schedule: sched, Required: true}
}

func entry(person, date, name string, status model.Status) model.Entry {
	return model.Entry{Person: person, Date: date, Category: "Test", Habit: name, Status: status}
}

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDayCountsScheduledAndCompleted(t *testing.T) {
	habits := []model.Habit{
		habit("veda", "Reading", "daily"),
		habit("veda", "Piano", "mon,wed,fri"),
		habit("radhika", "Yoga", "daily"), // other person, ignored
	}
	// 2024-01-02 is a Tuesday: Piano not scheduled.
	entries := []model.Entry{
		entry("veda", "2024-01-02", "Reading", model.StatusCompleted),
		entry("veda", "2024-01-02", "Piano", model.StatusRest),
		entry("radhika", "2024-01-02", "Yoga", model.StatusCompleted),
	}

	ds := Day(habits, entries, "veda", localDate(2024, 1, 2))
	if ds.Total != 1 {
		t.Errorf("Total = %d, want 1", ds.Total)
	}
	if ds.Completed != 1 {
		t.Errorf("Completed = %d, want 1", ds.Completed)
	}
	if ds.Percent != 100 {
		t.Errorf("Percent = %v, want 100", ds.Percent)
	}
}

func TestDayPercentZeroWhenNothingScheduled(t *testing.T) {
	habits := []model.Habit{habit("veda", "Piano", "mon")}
	// A Tuesday: no habits scheduled.
	ds := Day(habits, nil, "veda", localDate(2024, 1, 2))
	if ds.Total != 0 {
		t.Fatalf("Total = %d, want 0", ds.Total)
	}
	if ds.Percent != 0 {
		t.Errorf("Percent = %v, want 0 (not NaN)", ds.Percent)
	}
}

func TestRangeSumsInclusive(t *testing.T) {
	habits := []model.Habit{habit("veda", "Reading", "daily")}
	entries := []model.Entry{
		entry("veda", "2024-01-01", "Reading", model.StatusCompleted),
		entry("veda", "2024-01-03", "Reading", model.StatusCompleted),
	}

	r := Range(habits, entries, "veda", localDate(2024, 1, 1), localDate(2024, 1, 3))
	if r.Total != 3 {
		t.Errorf("Total = %d, want 3", r.Total)
	}
	if r.Completed != 2 {
		t.Errorf("Completed = %d, want 2", r.Completed)
	}
}

func TestRangeReversedIsEmpty(t *testing.T) {
	habits := []model.Habit{habit("veda", "Reading", "daily")}
	r := Range(habits, nil, "veda", localDate(2024, 1, 3), localDate(2024, 1, 1))
	if r.Total != 0 || r.Completed != 0 {
		t.Errorf("reversed range = %+v, want zeros", r)
	}
}

func TestWeekIsSundayToSaturday(t *testing.T) {
	habits := []model.Habit{habit("veda", "Reading", "daily")}
	// 2024-01-10 is a Wednesday; its week is Jan 7 (Sun) .. Jan 13 (Sat).
	r := Week(habits, nil, "veda", localDate(2024, 1, 10))
	if r.Start != "2024-01-07" {
		t.Errorf("Start = %q, want 2024-01-07", r.Start)
	}
	if r.End != "2024-01-13" {
		t.Errorf("End = %q, want 2024-01-13", r.End)
	}
	if r.Total != 7 {
		t.Errorf("Total = %d, want 7", r.Total)
	}
}

func TestMonthCoversCalendarMonth(t *testing.T) {
	habits := []model.Habit{habit("veda", "Reading", "daily")}
	r := Month(habits, nil, "veda", localDate(2024, 2, 15))
	if r.Start != "2024-02-01" || r.End != "2024-02-29" {
		t.Errorf("month range = %q..%q, want 2024-02-01..2024-02-29", r.Start, r.End)
	}
	if r.Total != 29 {
		t.Errorf("Total = %d, want 29 (leap February)", r.Total)
	}
}

func TestCurrentStreak(t *testing.T) {
	habits := []model.Habit{habit("p", "Reading", "daily")}
	entries := []model.Entry{
		entry("p", "2024-01-01", "Reading", model.StatusCompleted),
		entry("p", "2024-01-02", "Reading", model.StatusCompleted),
		entry("p", "2024-01-03", "Reading", model.StatusCompleted),
		entry("p", "2024-01-04", "Reading", model.StatusMissed),
	}

	if got := CurrentStreak(habits, entries, "p", localDate(2024, 1, 4)); got != 0 {
		t.Errorf("streak on missed day = %d, want 0", got)
	}
	if got := CurrentStreak(habits, entries, "p", localDate(2024, 1, 3)); got != 3 {
		t.Errorf("streak on last completed day = %d, want 3", got)
	}
}

func TestCurrentStreakRequiresEveryScheduledHabit(t *testing.T) {
	habits := []model.Habit{
		habit("p", "Reading", "daily"),
		habit("p", "Exercise", "daily"),
	}
	entries := []model.Entry{
		entry("p", "2024-01-02", "Reading", model.StatusCompleted),
		entry("p", "2024-01-02", "Exercise", model.StatusCompleted),
		entry("p", "2024-01-03", "Reading", model.StatusCompleted),
		// Exercise has no entry on the 3rd.
	}

	if got := CurrentStreak(habits, entries, "p", localDate(2024, 1, 3)); got != 0 {
		t.Errorf("partial day streak = %d, want 0", got)
	}
	if got := CurrentStreak(habits, entries, "p", localDate(2024, 1, 2)); got != 1 {
		t.Errorf("streak = %d, want 1", got)
	}
}

func TestZeroScheduledDayBreaksStreak(t *testing.T) {
	// Scheduled Mon/Wed only: Tuesday has nothing scheduled and must break
	// the chain even though nothing was missed.
	habits := []model.Habit{habit("p", "Piano", "mon,wed")}
	entries := []model.Entry{
		entry("p", "2024-01-08", "Piano", model.StatusCompleted), // Monday
		entry("p", "2024-01-10", "Piano", model.StatusCompleted), // Wednesday
	}

	if got := CurrentStreak(habits, entries, "p", localDate(2024, 1, 10)); got != 1 {
		t.Errorf("streak across rest day = %d, want 1", got)
	}
}
