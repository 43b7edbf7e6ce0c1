package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/aravn/habitboard/internal/backup"
	"github.com/aravn/habitboard/internal/handler"
	"github.com/aravn/habitboard/internal/middleware"
	"github.com/aravn/habitboard/internal/push"
	"github.com/aravn/habitboard/internal/store"
	ws "github.com/aravn/habitboard/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	personH       *handler.PersonHandler
	habitH        *handler.HabitHandler
	entryH        *handler.EntryHandler
	statsH        *handler.StatsHandler
	colorH        *handler.ColorHandler
	settingsH     *handler.SettingsHandler
	backupH       *handler.BackupHandler
	pushH         *handler.PushHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushScheduler *push.Scheduler
	logger        *slog.Logger
}

func New(db *sql.DB, backupCfg backup.Config, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	personStore := store.NewPersonStore(db)
	habitStore := store.NewHabitStore(db)
	entryStore := store.NewEntryStore(db)
	settingsStore := store.NewSettingsStore(db)
	backupStore := store.NewBackupStore(db)
	pushStore := store.NewPushStore(db)

	backupMgr := backup.NewManager(backupCfg, db, backupStore, settingsStore, logger.With("component", "backup"), func(s backup.Status) {
		hub.Broadcast(ws.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	})

	pushLogger := logger.With("component", "push")
	var pushSvc *push.Service
	var pushSched *push.Scheduler
	var pushH *handler.PushHandler
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
		pushSched = push.NewScheduler(pushSvc, pushStore, personStore, habitStore, entryStore, settingsStore, pushLogger)
		pushH = handler.NewPushHandler(pushStore, settingsStore, personStore, pushSvc, pushLogger)
	}

	return &Server{
		db:            db,
		hub:           hub,
		personH:       handler.NewPersonHandler(personStore, hub, logger.With("component", "person")),
		habitH:        handler.NewHabitHandler(habitStore, personStore, hub, logger.With("component", "habit")),
		entryH:        handler.NewEntryHandler(entryStore, habitStore, hub, logger.With("component", "entry")),
		statsH:        handler.NewStatsHandler(habitStore, entryStore, logger.With("component", "stats")),
		colorH:        handler.NewColorHandler(settingsStore, habitStore, hub, logger.With("component", "colors")),
		settingsH:     handler.NewSettingsHandler(settingsStore, backupMgr, logger.With("component", "settings")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, settingsStore, logger.With("component", "backup_handler")),
		pushH:         pushH,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		pushScheduler: pushSched,
		logger:        logger,
	}
}

// BackupManager returns the backup manager for lifecycle control.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// PushScheduler returns the reminder scheduler; nil without VAPID keys.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Persons
	mux.HandleFunc("GET /api/persons", s.personH.List)
	mux.HandleFunc("POST /api/persons", s.personH.Create)
	mux.HandleFunc("PUT /api/persons/{name}", s.personH.Update)
	mux.HandleFunc("DELETE /api/persons/{name}", s.personH.Delete)
	mux.HandleFunc("POST /api/persons/{name}/pin", s.personH.SetPIN)
	mux.HandleFunc("DELETE /api/persons/{name}/pin", s.personH.ClearPIN)
	mux.HandleFunc("POST /api/persons/{name}/pin/verify", s.rateLimited(s.personH.VerifyPIN))

	// Habits
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("PUT /api/habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)

	// Entries
	mux.HandleFunc("GET /api/entries", s.entryH.List)
	mux.HandleFunc("PUT /api/entries", s.entryH.Upsert)
	mux.HandleFunc("DELETE /api/entries/{id}", s.entryH.Delete)

	// Stats
	mux.HandleFunc("GET /api/stats/today", s.statsH.Today)
	mux.HandleFunc("GET /api/stats/day", s.statsH.Day)
	mux.HandleFunc("GET /api/stats/week", s.statsH.Week)
	mux.HandleFunc("GET /api/stats/month", s.statsH.Month)
	mux.HandleFunc("GET /api/stats/streak", s.statsH.Streak)
	mux.HandleFunc("GET /api/calendar", s.statsH.Calendar)

	// Category colors
	mux.HandleFunc("GET /api/colors/{person}", s.colorH.List)
	mux.HandleFunc("PUT /api/colors/{person}", s.colorH.Set)
	mux.HandleFunc("DELETE /api/colors/{person}/{category}", s.colorH.Delete)

	// Settings
	mux.HandleFunc("GET /api/settings/backup", s.settingsH.GetBackup)
	mux.HandleFunc("PUT /api/settings/backup", s.settingsH.UpdateBackup)
	mux.HandleFunc("GET /api/settings/s3", s.settingsH.GetS3)
	mux.HandleFunc("PUT /api/settings/s3", s.settingsH.UpdateS3)

	// Backups
	mux.HandleFunc("GET /api/backups", s.backupH.List)
	mux.HandleFunc("GET /api/backups/status", s.backupH.GetStatus)
	mux.HandleFunc("POST /api/backups/run", s.rateLimited(s.backupH.Run))
	mux.HandleFunc("GET /api/backups/{id}/download", s.backupH.Download)
	mux.HandleFunc("POST /api/backups/{id}/restore", s.rateLimited(s.backupH.Restore))

	// Push notifications (only with VAPID keys configured)
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
		mux.HandleFunc("GET /api/push/preferences", s.pushH.GetPreferences)
		mux.HandleFunc("PUT /api/push/preferences", s.pushH.UpdatePreferences)
		mux.HandleFunc("POST /api/push/test", s.pushH.TestNotification)
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}
