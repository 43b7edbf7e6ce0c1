package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aravn/habitboard/internal/model"
	"github.com/aravn/habitboard/internal/push"
	"github.com/aravn/habitboard/internal/store"
)

type PushHandler struct {
	pushStore     *store.PushStore
	settingsStore *store.SettingsStore
	personStore   *store.PersonStore
	service       *push.Service
	logger        *slog.Logger
}

func NewPushHandler(ps *store.PushStore, ss *store.SettingsStore, persons *store.PersonStore, svc *push.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{pushStore: ps, settingsStore: ss, personStore: persons, service: svc, logger: logger}
}

type subscribeRequest struct {
	Person     string `json:"person"`
	Endpoint   string `json:"endpoint"`
	P256dh     string `json:"p256dh"`
	Auth       string `json:"auth"`
	DeviceName string `json:"device_name"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.Person == "" || req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person, endpoint, p256dh, and auth are required"})
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

	sub, err := h.pushStore.CreateSubscription(req.Person, req.Endpoint, req.P256dh, req.Auth, req.DeviceName)
	if err != nil {
		h.logger.Error("create subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to subscribe"})
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.pushStore.DeleteSubscription(id); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to unsubscribe"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

func (h *PushHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")

	var subs []model.PushSubscription
	var err error
	if person != "" {
		subs, err = h.pushStore.ListByPerson(person)
	} else {
		subs, err = h.pushStore.List()
	}
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list subscriptions"})
		return
	}
	if subs == nil {
		subs = []model.PushSubscription{}
	}
	writeJSON(w, http.StatusOK, subs)
}

func (h *PushHandler) GetVAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"public_key": h.service.VAPIDPublicKey()})
}

func (h *PushHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}

	prefs, err := h.settingsStore.GetPushPreferences(person)
	if err != nil {
		h.logger.Error("get preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get preferences"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (h *PushHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs model.PushPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if prefs.Person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}
	if prefs.ReminderHour < 0 || prefs.ReminderHour > 23 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reminder_hour must be 0-23"})
		return
	}

	if err := h.settingsStore.SetPushPreferences(prefs); err != nil {
		h.logger.Error("save preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save preferences"})
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// TestNotification pushes a hello to every one of the person's devices.
func (h *PushHandler) TestNotification(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")
	if person == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "person is required"})
		return
	}

	subs, err := h.pushStore.ListByPerson(person)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list subscriptions"})
		return
	}
	if len(subs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no subscriptions for person"})
		return
	}

	payload := push.Payload{
		Title: "Habitboard",
		Body:  "Push notifications are working",
		Tag:   "test",
	}

	sent := 0
	for i := range subs {
		if err := h.service.Send(&subs[i], payload); err != nil {
			h.logger.Warn("test notification failed", "endpoint", subs[i].Endpoint, "error", err)
			continue
		}
		sent++
	}

	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
