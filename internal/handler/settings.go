package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aravn/habitboard/internal/backup"
	"github.com/aravn/habitboard/internal/store"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	backupManager *backup.Manager
	logger        *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, bm *backup.Manager, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, backupManager: bm, logger: logger}
}

type backupSettings struct {
	Enabled       bool `json:"enabled"`
	ScheduleHour  int  `json:"schedule_hour"`
	RetentionDays int  `json:"retention_days"`
}

func (h *SettingsHandler) GetBackup(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetBackupSettings()
	if err != nil {
		h.logger.Error("get backup settings", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}

	hour, _ := strconv.Atoi(settings["backup_schedule_hour"])
	retention, _ := strconv.Atoi(settings["backup_retention_days"])
	if retention <= 0 {
		retention = 30
	}

	writeJSON(w, http.StatusOK, backupSettings{
		Enabled:       settings["backup_enabled"] == "true",
		ScheduleHour:  hour,
		RetentionDays: retention,
	})
}

func (h *SettingsHandler) UpdateBackup(w http.ResponseWriter, r *http.Request) {
	var req backupSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.ScheduleHour < 0 || req.ScheduleHour > 23 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "schedule_hour must be 0-23"})
		return
	}
	if req.RetentionDays < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "retention_days must be positive"})
		return
	}

	pairs := map[string]string{
		"backup_enabled":        strconv.FormatBool(req.Enabled),
		"backup_schedule_hour":  strconv.Itoa(req.ScheduleHour),
		"backup_retention_days": strconv.Itoa(req.RetentionDays),
	}
	for key, value := range pairs {
		if err := h.settingsStore.Set(key, value); err != nil {
			h.logger.Error("save backup setting", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	writeJSON(w, http.StatusOK, req)
}

type s3Settings struct {
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key,omitempty"`
}

var s3SettingKeys = map[string]string{
	"endpoint":   "s3_endpoint",
	"bucket":     "s3_bucket",
	"region":     "s3_region",
	"access_key": "s3_access_key",
	"secret_key": "s3_secret_key",
}

func (h *SettingsHandler) GetS3(w http.ResponseWriter, r *http.Request) {
	out := s3Settings{}
	if v, err := h.settingsStore.Get(s3SettingKeys["endpoint"]); err == nil {
		out.Endpoint = v
	}
	if v, err := h.settingsStore.Get(s3SettingKeys["bucket"]); err == nil {
		out.Bucket = v
	}
	if v, err := h.settingsStore.Get(s3SettingKeys["region"]); err == nil {
		out.Region = v
	}
	if v, err := h.settingsStore.Get(s3SettingKeys["access_key"]); err == nil {
		out.AccessKey = v
	}
	// Secret is write-only over the API
	writeJSON(w, http.StatusOK, out)
}

func (h *SettingsHandler) UpdateS3(w http.ResponseWriter, r *http.Request) {
	var req s3Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	pairs := map[string]string{
		s3SettingKeys["endpoint"]:   req.Endpoint,
		s3SettingKeys["bucket"]:     req.Bucket,
		s3SettingKeys["region"]:     req.Region,
		s3SettingKeys["access_key"]: req.AccessKey,
	}
	if req.SecretKey != "" {
		pairs[s3SettingKeys["secret_key"]] = req.SecretKey
	}
	for key, value := range pairs {
		if err := h.settingsStore.Set(key, value); err != nil {
			h.logger.Error("save s3 setting", "key", key, "error", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	secret := req.SecretKey
	if secret == "" {
		if v, err := h.settingsStore.Get(s3SettingKeys["secret_key"]); err == nil {
			secret = v
		}
	}
	h.backupManager.UpdateS3Config(backup.S3Config{
		Endpoint:  req.Endpoint,
		Bucket:    req.Bucket,
		Region:    req.Region,
		AccessKey: req.AccessKey,
		SecretKey: secret,
	})

	req.SecretKey = ""
	writeJSON(w, http.StatusOK, req)
}
