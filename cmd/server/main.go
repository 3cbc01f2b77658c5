// Package main is the entry point for the qubitlab service, the backend for
// an interactive single-qubit decoherence visualizer. It exposes REST
// endpoints for continuous Bloch-vector evolution sessions, circuit parsing
// and execution, and discrete quantum experiments (Bell, GHZ, Stern-Gerlach,
// BB84), plus an SSE event stream for the UI.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qubitlab/qubitlab/internal/config"
	"github.com/qubitlab/qubitlab/internal/database"
	"github.com/qubitlab/qubitlab/internal/events"
	"github.com/qubitlab/qubitlab/internal/modules/evolution"
	"github.com/qubitlab/qubitlab/internal/modules/experiments"
	"github.com/qubitlab/qubitlab/internal/scheduler"
	"github.com/qubitlab/qubitlab/internal/server"
	"github.com/qubitlab/qubitlab/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting qubitlab")

	eventBus := events.NewBus()
	sessionManager := evolution.NewManager(log)

	// The cache database only holds prunable experiment run history. When
	// history is disabled the service runs fully in memory.
	var runRepo *experiments.Repository
	if cfg.HistoryEnabled {
		cacheDB, err := database.New(database.Config{
			Path: cfg.CacheDBPath(),
			Name: "cache",
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open cache database")
		}
		defer cacheDB.Close()

		runRepo = experiments.NewRepository(cacheDB.Conn(), log)
		if err := runRepo.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate cache database")
		}
		log.Info().Str("path", cfg.CacheDBPath()).Msg("Experiment history enabled")
	} else {
		log.Info().Msg("Experiment history disabled, running in memory only")
	}

	sched := scheduler.New(log)

	sweepJob := &scheduler.SessionSweepJob{
		Manager: sessionManager,
		Bus:     eventBus,
		TTL:     time.Duration(cfg.SessionTTLMinutes) * time.Minute,
		Log:     log,
	}
	if err := sched.AddJob("0 * * * * *", sweepJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule session sweep")
	}

	if runRepo != nil {
		pruneJob := &scheduler.HistoryPruneJob{
			Repo:      runRepo,
			Bus:       eventBus,
			Retention: time.Duration(cfg.HistoryRetentionDays) * 24 * time.Hour,
			Log:       log,
		}
		if err := sched.AddJob("@hourly", pruneJob); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule history prune")
		}
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:            log,
		Config:         cfg,
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		EventBus:       eventBus,
		SessionManager: sessionManager,
		RunRepo:        runRepo,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
