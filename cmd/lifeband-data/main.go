package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lifeband-data/common/database"
	"lifeband-data/common/logger"
	commonredis "lifeband-data/common/redis"
	"lifeband-data/internal/collection"
	"lifeband-data/internal/config"
	"lifeband-data/internal/functions"
	httpapi "lifeband-data/internal/http"
	"lifeband-data/internal/repository"
	"lifeband-data/internal/service"
	"lifeband-data/internal/store"
	"lifeband-data/internal/supabase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "lifeband-data")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	durable, closeStore := openStore(cfg, log)
	defer closeStore()
	kv := store.NewCachedKV(durable, store.NewMemoryCache(), log)

	var db *sql.DB
	if cfg.DBEnabled {
		if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
			db = d
			defer database.Close(db)
			log.Info("DB enabled for lifeband-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back", zap.Error(err))
		}
	}

	var remote *supabase.Client
	if cfg.BackendConfigured() {
		remote = supabase.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, log)
	}

	repos := repository.Select(repository.Backends{
		DB:         db,
		Remote:     remote,
		Configured: cfg.BackendConfigured(),
		Local:      kv,
	}, log)
	log.Info("backend selected", zap.String("mode", repos.Mode))

	var pdf functions.PDFGenerator = functions.Unavailable{}
	if remote != nil {
		pdf = functions.NewClient(remote, log)
	}

	// hosted auth only when its data API is the backend in use
	var authRemote *supabase.Client
	if repos.Mode == repository.ModeRest {
		authRemote = remote
	}
	// the implicit device admin exists only in local mode
	var localKV collection.Storage
	if repos.Mode == repository.ModeLocal {
		localKV = kv
	}
	auth := service.NewAuthService(repos.Admins, authRemote, localKV, cfg.Backend.JWTSecret, log)

	portadores := service.NewPortadorService(repos, pdf, cfg.PublicHost, log)
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          auth,
		Admins:        service.NewAdminService(repos.Admins, log),
		Portadores:    portadores,
		InfoMedica:    service.NewInfoMedicaService(repos, log),
		Contacts:      service.NewContactService(repos, log),
		Subscriptions: service.NewSubscriptionService(repos, log),
		Export:        service.NewExportService(portadores, log),
		Medical:       httpapi.MedicalRoutes(repos),
	}, httpapi.Options{
		Mode:         repos.Mode,
		ForwardToken: repos.Mode == repository.ModeRest,
		Storage:      kv,
	}, log)

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", zap.Error(err))
	}
}

// openStore durable store for the local fallback. A store that cannot be
// opened leaves the process memory-only instead of failing to start.
func openStore(cfg *config.Config, log *zap.Logger) (store.KV, func()) {
	switch cfg.Store.Driver {
	case "memory":
		return store.NewMemoryKV(), func() {}
	case "redis":
		client := commonredis.NewRedisClient(&cfg.Redis)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := commonredis.Ping(ctx, client); err != nil {
			log.Warn("redis store unreachable, writes will degrade to memory", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		return store.NewRedisKV(client), func() { _ = commonredis.Close(client) }
	default:
		ldb, err := store.OpenLevelDB(cfg.Store.Path)
		if err != nil {
			log.Warn("leveldb store unavailable, running memory-only", zap.String("path", cfg.Store.Path), zap.Error(err))
			return nil, func() {}
		}
		return ldb, func() { _ = ldb.Close() }
	}
}
