package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"directory-bknd/internal/auth"
	"directory-bknd/internal/cache"
	"directory-bknd/internal/config"
	"directory-bknd/internal/database"
	"directory-bknd/internal/logger"
	"directory-bknd/internal/routes"
	"directory-bknd/internal/scheduler"
	"directory-bknd/internal/services"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	defer logr.Sync()

	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		schemaCancel()
		logr.Fatal("failed to prepare schema", zap.Error(err))
	}
	schemaCancel()

	rdb := cache.NewRedis(cfg, logr.Component("cache"))
	defer rdb.Close()

	deps := routes.Deps{
		Locations: services.NewLocationService(db, rdb, cfg, logr.Component("locations")),
		Favorites: services.NewFavoriteService(services.NewBunFavoriteStore(db), logr.Component("favorites")),
		Jobs:      services.NewJobService(cfg, logr.Component("jobs")),
		Revoker:   auth.NewRevoker(rdb),
	}

	// Without the public key nobody can sign in, but browsing still works.
	if verifier, err := auth.NewVerifier(cfg.JWTPublicKeyPath, cfg.JWTIssuer); err != nil {
		logr.Error("jwt verifier unavailable, all sessions are anonymous", zap.Error(err))
	} else {
		deps.Verifier = verifier
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched := scheduler.New(deps.Locations, rdb, cfg.FeaturedRefreshSpec, logr.Component("scheduler"))
	if err := sched.Start(ctx); err != nil {
		logr.Fatal("failed to start scheduler", zap.Error(err))
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      routes.NewRouter(deps, cfg, logr),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	logr.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
	sched.Stop()

	logr.Info("server exited gracefully")
}
