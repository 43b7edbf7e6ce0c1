package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/schedule"
	"github.com/aravn/habitboard/internal/stats"
	"github.com/aravn/habitboard/internal/store"
)

type StatsHandler struct {
	habitStore *store.HabitStore
	entryStore *store.EntryStore
	logger     *slog.Logger
}

func NewStatsHandler(hs *store.HabitStore, es *store.EntryStore, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{habitStore: hs, entryStore: es, logger: logger}
}

// load fetches a person's habits and entries for the stats computations.
// The stats package is pure; this is the only database touch.
func (h *StatsHandler) load(person string) ([]model.Habit, []model.Entry, error) {
	habits, err := h.habitStore.ListByPerson(person)
	if err != nil {
		return nil, nil, err
	}
	entries, err := h.entryStore.ListByPerson(person)
	if err != nil {
		return nil, nil, err
	}
	return habits, entries, nil
}

// parsePersonDate pulls ?person= and optional ?date= (default today) from the
// query. A write to w means the caller should return immediately.
func (h *StatsHandler) parsePersonDate(w http.ResponseWriter, r *http.Request) (string, time.Time, bool) {
	q := r.URL.Query()
	person := q.Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return "", time.Time{}, false
	}

	date := time.Now()
	if ds := q.Get("date"); ds != "" {
		parsed, err := schedule.ParseDateKey(ds)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
			return "", time.Time{}, false
		}
		date = parsed
	}
	return person, date, true
}

func (h *StatsHandler) Today(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	now := time.Now()
	day := stats.Day(habits, entries, person, now)
	writeJSON(w, http.StatusOK, map[string]any{
		"day":    day,
		"band":   stats.BandFor(day),
		"streak": stats.CurrentStreak(habits, entries, person, now),
	})
}

func (h *StatsHandler) Day(w http.ResponseWriter, r *http.Request) {
	person, date, ok := h.parsePersonDate(w, r)
	if !ok {
		return
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	day := stats.Day(habits, entries, person, date)
	writeJSON(w, http.StatusOK, map[string]any{"day": day, "band": stats.BandFor(day)})
}

func (h *StatsHandler) Week(w http.ResponseWriter, r *http.Request) {
	person, date, ok := h.parsePersonDate(w, r)
	if !ok {
		return
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats.Week(habits, entries, person, date))
}

func (h *StatsHandler) Month(w http.ResponseWriter, r *http.Request) {
	person, date, ok := h.parsePersonDate(w, r)
	if !ok {
		return
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	writeJSON(w, http.StatusOK, stats.Month(habits, entries, person, date))
}

func (h *StatsHandler) Streak(w http.ResponseWriter, r *http.Request) {
	person, date, ok := h.parsePersonDate(w, r)
	if !ok {
		return
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute stats"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"streak": stats.CurrentStreak(habits, entries, person, date),
	})
}

// Calendar returns the six-week heatmap grid for ?month=YYYY-MM.
func (h *StatsHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	person := q.Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}

	now := time.Now()
	ref := now
	if ms := q.Get("month"); ms != "" {
		parsed, err := time.ParseInLocation("2006-01", ms, time.Local)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid month, want YYYY-MM"})
			return
		}
		ref = parsed
	}

	habits, entries, err := h.load(person)
	if err != nil {
		h.logger.Error("load stats data", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to compute calendar"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"month": ref.Format("2006-01"),
		"cells": stats.CalendarGrid(habits, entries, person, ref, now),
	})
}
