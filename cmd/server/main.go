package main

import (
	// Standard library
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// External dependencies
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	// Internal packages
	"github.com/houzhh15/roomz/cmd/server/internal/audit"
	"github.com/houzhh15/roomz/cmd/server/internal/config"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/meetings"
	"github.com/houzhh15/roomz/cmd/server/internal/domain/rooms"
	"github.com/houzhh15/roomz/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logInstance, err := logger.Init(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.Server.Env,
		WithSource:  cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	appLogger := logInstance.With("component", "meeting-api")

	// Validate configuration
	if err := config.ValidateConfig(cfg); err != nil {
		appLogger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	appLogger.Debug(cfg.PrintConfig())
	appLogger.Info("configuration loaded", "env", cfg.Server.Env, "port", cfg.Server.Port, "auth", cfg.AuthEnabled())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	catalog, err := loadCatalog(cfg, appLogger)
	if err != nil {
		appLogger.Error("rooms catalog load failed", "path", cfg.Data.RoomsFile, "error", err)
		os.Exit(1)
	}

	// Load meeting store; a broken file degrades to an empty store
	store := meetings.NewStore(meetings.StoreOptions{
		DataPath:      cfg.Data.MeetingsFile,
		SeedPath:      cfg.Data.SeedFile,
		DefaultRoomID: cfg.Data.DefaultRoomID,
		Logger:        logInstance.With("component", "meeting-store"),
		KnownRoom: func(roomID string) bool {
			_, ok := catalog.Get(roomID)
			return ok
		},
	})
	if err := store.Load(); err != nil {
		appLogger.Warn("meeting store load failed, starting empty", "error", err)
	}
	appLogger.Info("meeting store ready", "source", store.Source(), "meetings", store.Len())

	auditor, closeAudit := newAuditLogger(cfg, appLogger)
	defer closeAudit()

	r := gin.New()
	setupRoutes(r, cfg, catalog, store, auditor, time.Now())

	srv := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, srv, appLogger); err != nil {
		appLogger.Error("server stopped with error", "error", err)
		closeAudit()
		os.Exit(1)
	}
	appLogger.Info("server shutdown complete")
}

// run serves until ctx is cancelled, then shuts the server down gracefully.
func run(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func loadCatalog(cfg *config.Config, log *slog.Logger) (*rooms.Catalog, error) {
	if cfg.Data.RoomsFile == "" {
		return rooms.Default(), nil
	}
	catalog, err := rooms.LoadCatalog(cfg.Data.RoomsFile)
	if err != nil {
		return nil, err
	}
	log.Info("rooms catalog loaded", "path", cfg.Data.RoomsFile, "rooms", len(catalog.List()))
	return catalog, nil
}

// newAuditLogger returns a rotating file audit logger when AUDIT_LOG_PATH is set.
func newAuditLogger(cfg *config.Config, log *slog.Logger) (audit.AuditLogger, func()) {
	if cfg.Audit.LogPath == "" {
		return audit.NopAuditLogger{}, func() {}
	}

	fileLogger := audit.NewFileAuditLogger(cfg.Audit.LogPath, audit.RotationConfig{
		MaxSizeMB:  cfg.Audit.MaxSizeMB,
		MaxBackups: cfg.Audit.MaxBackups,
		MaxAgeDays: cfg.Audit.MaxAgeDays,
		Compress:   true,
	})
	log.Info("audit log enabled", "path", cfg.Audit.LogPath)
	return fileLogger, func() {
		if err := fileLogger.Close(); err != nil {
			log.Warn("audit log close failed", "error", err)
		}
	}
}
