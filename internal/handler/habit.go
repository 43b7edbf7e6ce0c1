package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/registry"
	"github.com/aravn/habitboard/internal/store"
	"github.com/aravn/habitboard/internal/websocket"
)

type HabitHandler struct {
	habitStore  *store.HabitStore
	personStore *store.PersonStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewHabitHandler(hs *store.HabitStore, ps *store.PersonStore, hub *websocket.Hub, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habitStore: hs, personStore: ps, hub: hub, logger: logger}
}

func (h *HabitHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type habitRequest struct {
	Person   string `json:"person"`
	Category string `json:"category"`
	Name     string `json:"habit"`
	Schedule string `json:"schedule"`
}

func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")

	var habits []model.Habit
	var err error
	if person != "" {
		habits, err = h.habitStore.ListByPerson(person)
	} else {
		habits, err = h.habitStore.List()
	}
	if err != nil {
		h.logger.Error("list habits", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}
	if habits == nil {
		habits = []model.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	person, err := h.personStore.Get(req.Person)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check person"})
		return
	}
	if person == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person not found"})
		return
	}

	existing, err := h.habitStore.ListByPerson(req.Person)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}

	candidate, err := registry.Add(existing, model.Habit{
		Person:   req.Person,
		Category: req.Category,
		Name:     req.Name,
		Schedule: req.Schedule,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, registry.ErrDuplicateHabit) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	habit, err := h.habitStore.Create(candidate.Person, candidate.Category, candidate.Name, candidate.Schedule, candidate.Required)
	if err != nil {
		h.logger.Error("create habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create habit"})
		return
	}

	h.broadcast(websocket.NewMessage("habit", "created", habit.Person, map[string]any{"habit": habit.Name}))
	writeJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.habitStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get habit"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	var req habitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)

	habits, err := h.habitStore.ListByPerson(existing.Person)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}

	// Validate against the pure rename rules before touching the database.
	// The store applies the same change transactionally, entries included.
	if _, _, err := registry.Rename(habits, nil, existing.Person, existing.Name, req.Name, req.Category, req.Schedule); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, registry.ErrDuplicateHabit) {
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	habit, err := h.habitStore.Rename(existing.Person, existing.Name, req.Name, req.Category, req.Schedule)
	if err != nil {
		h.logger.Error("rename habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update habit"})
		return
	}

	h.broadcast(websocket.NewMessage("habit", "updated", habit.Person, map[string]any{"habit": habit.Name}))
	writeJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.habitStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get habit"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "habit not found"})
		return
	}

	if err := h.habitStore.DeleteCascade(existing.Person, existing.Name); err != nil {
		h.logger.Error("delete habit", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete habit"})
		return
	}

	h.broadcast(websocket.NewMessage("habit", "deleted", existing.Person, map[string]any{"habit": existing.Name}))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
