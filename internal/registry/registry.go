// Package registry enforces the mutation invariants for habit definitions:
// name uniqueness per person, rename cascades onto historical entries, and
// total deletes. Functions take read-only views of the caller's collections
// and return fresh slices; committing the result (in one transaction) is the
// caller's job.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/schedule"
)

// ErrDuplicateHabit is returned when a person already has a habit with the
// same name, compared case-insensitively after trimming.
var ErrDuplicateHabit = errors.New("habit already exists")

// ErrHabitNotFound is returned when no habit matches (person, name).
var ErrHabitNotFound = errors.New("habit not found")

// Add validates candidate against existing and returns it normalized: name
// and category trimmed, Required forced on. The existing slice is untouched.
func Add(existing []model.Habit, candidate model.Habit) (model.Habit, error) {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Category = strings.TrimSpace(candidate.Category)

	if candidate.Name == "" {
		return model.Habit{}, fmt.Errorf("habit name is required")
	}
	if candidate.Category == "" {
		return model.Habit{}, fmt.Errorf("category is required")
	}
	if err := schedule.ValidateRule(candidate.Schedule); err != nil {
		return model.Habit{}, err
	}

	for _, h := range existing {
		if h.Person == candidate.Person && strings.EqualFold(h.Name, candidate.Name) {
			return model.Habit{}, fmt.Errorf("%w: %q", ErrDuplicateHabit, h.Name)
		}
	}

	candidate.Required = true
	return candidate, nil
}

// Rename updates the habit identified by (person, originalName) to the new
// name, category, and schedule, and — when the name actually changes —
// rewrites every matching entry so history follows the habit. Both returned
// slices are fresh copies; the caller must persist them together or not at
// all.
func Rename(habits []model.Habit, entries []model.Entry, person, originalName, newName, newCategory, newSchedule string) ([]model.Habit, []model.Entry, error) {
	newName = strings.TrimSpace(newName)
	newCategory = strings.TrimSpace(newCategory)
	if newName == "" {
		return nil, nil, fmt.Errorf("habit name is required")
	}
	if err := schedule.ValidateRule(newSchedule); err != nil {
		return nil, nil, err
	}

	idx := -1
	for i, h := range habits {
		if h.Person == person && h.Name == originalName {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, nil, fmt.Errorf("%w: %q for %q", ErrHabitNotFound, originalName, person)
	}

	// A rename must not collide with another of the person's habits.
	if !strings.EqualFold(newName, originalName) {
		for _, h := range habits {
			if h.Person == person && strings.EqualFold(h.Name, newName) {
				return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateHabit, h.Name)
			}
		}
	}

	outHabits := make([]model.Habit, len(habits))
	copy(outHabits, habits)
	outHabits[idx].Name = newName
	outHabits[idx].Category = newCategory
	outHabits[idx].Schedule = newSchedule

	outEntries := make([]model.Entry, len(entries))
	copy(outEntries, entries)
	if newName != originalName {
		for i := range outEntries {
			if outEntries[i].Person == person && outEntries[i].Habit == originalName {
				outEntries[i].Habit = newName
				outEntries[i].Category = newCategory
			}
		}
	}

	return outHabits, outEntries, nil
}

// Delete removes the habit identified by (person, name) and every entry for
// it. Entries for other persons, even under the same habit name, survive.
func Delete(habits []model.Habit, entries []model.Entry, person, name string) ([]model.Habit, []model.Entry, error) {
	found := false
	outHabits := make([]model.Habit, 0, len(habits))
	for _, h := range habits {
		if h.Person == person && h.Name == name {
			found = true
			continue
		}
		outHabits = append(outHabits, h)
	}
	if !found {
		return nil, nil, fmt.Errorf("%w: %q for %q", ErrHabitNotFound, name, person)
	}

	outEntries := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Person == person && e.Habit == name {
			continue
		}
		outEntries = append(outEntries, e)
	}

	return outHabits, outEntries, nil
}
