// Package main is the entry point for the linkarchive API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"linkarchive/internal/config"
	"linkarchive/internal/domain/entries"
	v1 "linkarchive/internal/infrastructure/http/v1"
	"linkarchive/internal/infrastructure/http/v1/handlers"
	"linkarchive/internal/infrastructure/storage/postgres"
	"linkarchive/internal/infrastructure/storage/postgres/entry_repo"
	"linkarchive/pkg/logger"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file (default $CONFIG_FILE)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	if err := cfg.RequireDatabase(); err != nil {
		logger.Fatal(ctx, "invalid configuration", "error", err)
	}

	log.Infow("starting linkarchive server", "env", cfg.App.Env)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		logger.Fatal(ctx, "failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)

	// --- Entries ---
	mapping := entries.NewMapping(cfg.Search.Mapping)
	repo := entry_repo.New(txManager, entry_repo.Config{
		Mapping:       mapping,
		DefaultFields: cfg.Search.DefaultFields,
		IgnoreCase:    cfg.Search.IgnoreCase,
	})
	service := entries.NewService(entries.ServiceConfig{
		Repo:            repo,
		MaxSearchLength: cfg.Search.MaxQueryLength,
	})
	entryHandler := handlers.NewEntryHandler(handlers.NewBaseHandler(), handlers.EntryHandlerConfig{
		Service:       service,
		Planner:       repo,
		Mapping:       mapping,
		DefaultFields: cfg.Search.DefaultFields,
	})

	log.Infow("search configured",
		"fields", mapping.Len(),
		"default_fields", cfg.Search.DefaultFields,
		"ignore_case", cfg.Search.IgnoreCase,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Database: pool,
		Logger:   log.WithComponent("http"),
		Entries:  entryHandler,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
