package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/schedule"
	"github.com/aravn/habitboard/internal/store"
	"github.com/aravn/habitboard/internal/websocket"
)

type EntryHandler struct {
	entryStore *store.EntryStore
	habitStore *store.HabitStore
	hub        *websocket.Hub
	logger     *slog.Logger
}

func NewEntryHandler(es *store.EntryStore, hs *store.HabitStore, hub *websocket.Hub, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{entryStore: es, habitStore: hs, hub: hub, logger: logger}
}

func (h *EntryHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type entryRequest struct {
	Date     string       `json:"date"`
	Person   string       `json:"person"`
	Category string       `json:"category"`
	Habit    string       `json:"habit"`
	Status   model.Status `json:"status"`
}

func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	person := q.Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}

	from, to := q.Get("from"), q.Get("to")

	var entries []model.Entry
	var err error
	if from != "" && to != "" {
		if _, perr := schedule.ParseDateKey(from); perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date"})
			return
		}
		if _, perr := schedule.ParseDateKey(to); perr != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date"})
			return
		}
		entries, err = h.entryStore.ListByDateRange(person, from, to)
	} else {
		entries, err = h.entryStore.ListByPerson(person)
	}
	if err != nil {
		h.logger.Error("list entries", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list entries"})
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Upsert records a day's status for one habit. Last write wins; there is no
// merge. A concurrent board sees the change via the broadcast and refetches.
func (h *EntryHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if _, err := schedule.ParseDateKey(req.Date); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date"})
		return
	}
	if req.Person == "" || req.Habit == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person and habit are required"})
		return
	}
	if !model.ValidStatus(req.Status) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid status"})
		return
	}

	// Fill the category from the habit definition when the client omits it.
	if req.Category == "" {
		habit, err := h.habitStore.Get(req.Person, req.Habit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get habit"})
			return
		}
		if habit != nil {
			req.Category = habit.Category
		}
	}

	entry, err := h.entryStore.Upsert(req.Date, req.Person, req.Category, req.Habit, req.Status)
	if err != nil {
		h.logger.Error("upsert entry", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save entry"})
		return
	}

	h.broadcast(websocket.NewMessage("entry", "updated", entry.Person, map[string]any{
		"date":  entry.Date,
		"habit": entry.Habit,
	}))
	writeJSON(w, http.StatusOK, entry)
}

func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.entryStore.Delete(id); err != nil {
		h.logger.Error("delete entry", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete entry"})
		return
	}

	h.broadcast(websocket.NewMessage("entry", "deleted", "", nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
