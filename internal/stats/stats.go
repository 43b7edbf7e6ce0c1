// Package stats computes completion statistics from habit and entry
// collections. Everything here is a pure function over caller-owned slices;
// nothing is retained or mutated.
package stats

import (
	"math"
	"time"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/schedule"
)

// DayStats is one person's completion picture for a single day.
type DayStats struct {
	Date      string  `json:"date"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// RangeStats sums day stats over an inclusive date range.
type RangeStats struct {
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Day computes stats for one calendar day.
//
// Total counts the person's habits scheduled on that day. Completed counts
// the person's completed entries dated that day — all of them, not only those
// matching a currently scheduled habit, so history written under a habit's
// old schedule still shows up. Percent is 0 when nothing is scheduled.
func Day(habits []model.Habit, entries []model.Entry, person string, date time.Time) DayStats {
	key := schedule.FormatDateKey(date)

	total := 0
	for _, h := range habits {
		if h.Person == person && schedule.ScheduledOn(h.Schedule, date) {
			total++
		}
	}

	completed := 0
	for _, e := range entries {
		if e.Person == person && e.Date == key && e.Status == model.StatusCompleted {
			completed++
		}
	}

	return DayStats{Date: key, Completed: completed, Total: total, Percent: percent(completed, total)}
}

// Range sums Day over every calendar day from start through end inclusive.
// A reversed range yields zeros.
func Range(habits []model.Habit, entries []model.Entry, person string, start, end time.Time) RangeStats {
	r := RangeStats{Start: schedule.FormatDateKey(start), End: schedule.FormatDateKey(end)}
	for d := startOfDay(start); !d.After(startOfDay(end)); d = d.AddDate(0, 0, 1) {
		ds := Day(habits, entries, person, d)
		r.Completed += ds.Completed
		r.Total += ds.Total
	}
	r.Percent = percent(r.Completed, r.Total)
	return r
}

// Week computes stats for the Sunday-to-Saturday week containing ref.
func Week(habits []model.Habit, entries []model.Entry, person string, ref time.Time) RangeStats {
	start := startOfDay(ref).AddDate(0, 0, -int(ref.Weekday()))
	return Range(habits, entries, person, start, start.AddDate(0, 0, 6))
}

// Month computes stats for the calendar month containing ref.
func Month(habits []model.Habit, entries []model.Entry, person string, ref time.Time) RangeStats {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)
	return Range(habits, entries, person, first, last)
}

// CurrentStreak counts consecutive 100% days walking backward from date.
//
// A day extends the streak only when it has scheduled habits and every one of
// them has a completed entry. A day with nothing scheduled breaks the streak;
// rest days are not a free pass.
func CurrentStreak(habits []model.Habit, entries []model.Entry, person string, date time.Time) int {
	streak := 0
	for d := startOfDay(date); ; d = d.AddDate(0, 0, -1) {
		if !dayFullyCompleted(habits, entries, person, d) {
			return streak
		}
		streak++
	}
}

func dayFullyCompleted(habits []model.Habit, entries []model.Entry, person string, date time.Time) bool {
	key := schedule.FormatDateKey(date)
	scheduled := 0
	for _, h := range habits {
		if h.Person != person || !schedule.ScheduledOn(h.Schedule, date) {
			continue
		}
		scheduled++
		if !hasCompletedEntry(entries, person, key, h.Name) {
			return false
		}
	}
	return scheduled > 0
}

func hasCompletedEntry(entries []model.Entry, person, dateKey, habit string) bool {
	for _, e := range entries {
		if e.Person == person && e.Date == dateKey && e.Habit == habit && e.Status == model.StatusCompleted {
			return true
		}
	}
	return false
}

func percent(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// roundPercent matches the SPA's Math.round for display values.
func roundPercent(p float64) int {
	return int(math.Round(p))
}
