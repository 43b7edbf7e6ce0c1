package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aravn/habitboard/internal/backup"
	"github.com/aravn/habitboard/internal/database"
	"github.com/aravn/habitboard/internal/logging"
	"github.com/aravn/habitboard/internal/push"
	"github.com/aravn/habitboard/internal/server"
)

func main() {
	// Missing .env is fine; environment variables still apply.
	godotenv.Load()

	logger := logging.Setup(os.Getenv("HABITBOARD_LOG_LEVEL"), os.Getenv("HABITBOARD_LOG_FORMAT"))

	port := os.Getenv("HABITBOARD_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("HABITBOARD_DB_PATH")
	if dbPath == "" {
		dbPath = "habitboard.db"
	}

	db, err := database.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	backupCfg := backup.Config{
		DBPath: dbPath,
		S3: backup.S3Config{
			Endpoint:  os.Getenv("HABITBOARD_S3_ENDPOINT"),
			Bucket:    os.Getenv("HABITBOARD_S3_BUCKET"),
			Region:    os.Getenv("HABITBOARD_S3_REGION"),
			AccessKey: os.Getenv("HABITBOARD_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("HABITBOARD_S3_SECRET_KEY"),
		},
	}

	pushCfg := push.Config{
		VAPIDPublicKey:  os.Getenv("HABITBOARD_VAPID_PUBLIC_KEY"),
		VAPIDPrivateKey: os.Getenv("HABITBOARD_VAPID_PRIVATE_KEY"),
	}

	srv := server.New(db, backupCfg, pushCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.BackupManager().Start(ctx)
	defer srv.BackupManager().Stop()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(ctx)
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:              ":" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("habitboard starting", "addr", ":"+port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
