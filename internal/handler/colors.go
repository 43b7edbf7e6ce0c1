package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/aravn/habitboard/internal/colors"
	"github.com/aravn/habitboard/internal/store"
	"github.com/aravn/habitboard/internal/websocket"
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type ColorHandler struct {
	settingsStore *store.SettingsStore
	habitStore    *store.HabitStore
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewColorHandler(ss *store.SettingsStore, hs *store.HabitStore, hub *websocket.Hub, logger *slog.Logger) *ColorHandler {
	return &ColorHandler{settingsStore: ss, habitStore: hs, hub: hub, logger: logger}
}

func (h *ColorHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type categoryColor struct {
	Category  string `json:"category"`
	Color     string `json:"color"`
	TextColor string `json:"text_color"`
	Override  bool   `json:"override"`
}

// List resolves every category the person currently uses, plus any overrides
// for categories no longer in use. Overrides survive habit churn on purpose.
func (h *ColorHandler) List(w http.ResponseWriter, r *http.Request) {
	person := r.PathValue("person")

	overrides, err := h.settingsStore.GetCategoryColors(person)
	if err != nil {
		h.logger.Error("get category colors", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get colors"})
		return
	}

	habits, err := h.habitStore.ListByPerson(person)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list habits"})
		return
	}

	seen := make(map[string]bool)
	result := []categoryColor{}
	for _, habit := range habits {
		if seen[habit.Category] {
			continue
		}
		seen[habit.Category] = true
		c := colors.Resolve(habit.Category, overrides, colors.Palette)
		_, isOverride := overrides[habit.Category]
		result = append(result, categoryColor{
			Category:  habit.Category,
			Color:     c,
			TextColor: colors.TextColor(c),
			Override:  isOverride,
		})
	}
	for category, c := range overrides {
		if seen[category] {
			continue
		}
		result = append(result, categoryColor{
			Category:  category,
			Color:     c,
			TextColor: colors.TextColor(c),
			Override:  true,
		})
	}

	writeJSON(w, http.StatusOK, result)
}

type colorRequest struct {
	Category string `json:"category"`
	Color    string `json:"color"`
}

func (h *ColorHandler) Set(w http.ResponseWriter, r *http.Request) {
	person := r.PathValue("person")

	var req colorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Category == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category is required"})
		return
	}
	if !hexColorRe.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be #rrggbb"})
		return
	}

	updated, err := h.settingsStore.SetCategoryColor(person, req.Category, req.Color)
	if err != nil {
		h.logger.Error("set category color", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set color"})
		return
	}

	h.broadcast(websocket.NewMessage("color", "updated", person, map[string]any{"category": req.Category}))
	writeJSON(w, http.StatusOK, updated)
}

func (h *ColorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	person := r.PathValue("person")
	category := r.PathValue("category")

	updated, err := h.settingsStore.DeleteCategoryColor(person, category)
	if err != nil {
		h.logger.Error("delete category color", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete color"})
		return
	}

	h.broadcast(websocket.NewMessage("color", "deleted", person, map[string]any{"category": category}))
	writeJSON(w, http.StatusOK, updated)
}
