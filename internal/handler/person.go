package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/store"
	"github.com/aravn/habitboard/internal/websocket"
)

type PersonHandler struct {
	personStore *store.PersonStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewPersonHandler(ps *store.PersonStore, hub *websocket.Hub, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{personStore: ps, hub: hub, logger: logger}
}

func (h *PersonHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type personRequest struct {
	Name        string `json:"name"`
	AvatarEmoji string `json:"avatar_emoji"`
	Color       string `json:"color"`
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	persons, err := h.personStore.List()
	if err != nil {
		h.logger.Error("list persons", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list persons"})
		return
	}
	if persons == nil {
		persons = []model.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	existing, err := h.personStore.Get(req.Name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check person"})
		return
	}
	if existing != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "person already exists"})
		return
	}

	person, err := h.personStore.Create(req.Name, req.AvatarEmoji, req.Color)
	if err != nil {
		h.logger.Error("create person", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create person"})
		return
	}

	h.broadcast(websocket.NewMessage("person", "created", person.Name, nil))
	writeJSON(w, http.StatusCreated, person)
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	existing, err := h.personStore.Get(name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get person"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "person not found"})
		return
	}

	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	person, err := h.personStore.Update(name, req.AvatarEmoji, req.Color)
	if err != nil {
		h.logger.Error("update person", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update person"})
		return
	}

	h.broadcast(websocket.NewMessage("person", "updated", name, nil))
	writeJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	existing, err := h.personStore.Get(name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get person"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "person not found"})
		return
	}

	if err := h.personStore.Delete(name); err != nil {
		h.logger.Error("delete person", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete person"})
		return
	}

	h.broadcast(websocket.NewMessage("person", "deleted", name, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type pinRequest struct {
	PIN string `json:"pin"`
}

func (h *PersonHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if len(req.PIN) < 4 || len(req.PIN) > 6 || !isDigits(req.PIN) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "PIN must be 4-6 digits"})
		return
	}

	existing, err := h.personStore.Get(name)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get person"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "person not found"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to hash PIN"})
		return
	}

	if err := h.personStore.SetPIN(name, string(hash)); err != nil {
		h.logger.Error("set pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to set PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin set"})
}

func (h *PersonHandler) ClearPIN(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	if err := h.personStore.ClearPIN(name); err != nil {
		h.logger.Error("clear pin", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "pin cleared"})
}

func (h *PersonHandler) VerifyPIN(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hash, err := h.personStore.GetPINHash(name)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "person not found"})
		return
	}
	if hash == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.PIN)); err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect PIN"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}
