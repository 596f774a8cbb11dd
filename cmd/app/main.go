package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moonlinghq/moonling-core/internal/bootstrap"
	"github.com/moonlinghq/moonling-core/internal/catalog"
	"github.com/moonlinghq/moonling-core/internal/config"
	"github.com/moonlinghq/moonling-core/internal/discovery"
	"github.com/moonlinghq/moonling-core/internal/handler"
	"github.com/moonlinghq/moonling-core/internal/inventory"
	"github.com/moonlinghq/moonling-core/internal/logger"
	"github.com/moonlinghq/moonling-core/internal/mooncycle"
	"github.com/moonlinghq/moonling-core/internal/points"
	"github.com/moonlinghq/moonling-core/internal/recipe"
	"github.com/moonlinghq/moonling-core/internal/scheduler"
	"github.com/moonlinghq/moonling-core/internal/server"
	"github.com/moonlinghq/moonling-core/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(logger.NewConfig(
		cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false))

	ctx := context.Background()

	var (
		store  storage.Store
		pinger handler.Pinger
		closer interface{ Close() }
	)
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pg, err := storage.NewPostgresStore(ctx, cfg.GetDBConnString())
		if err != nil {
			return err
		}
		store = pg
		pinger = pg
		closer = pg
	default:
		store = storage.NewMemoryStore()
	}

	cat, err := catalog.NewLoader().Load(cfg.IngredientsPath, cfg.RecipesPath)
	if err != nil {
		return err
	}

	invService := inventory.NewService(ctx, store, cat)
	recipeService := recipe.NewService(cat, invService)
	pointsService := points.NewService(store, time.Now)
	cycleService := mooncycle.NewService(store, pointsService, time.Now, rand.Float64)
	discoveryService := discovery.NewService(ctx, store, cat, time.Now, rand.Float64)

	sched := scheduler.New(cfg.DiscoveryPollSpec, discoveryService, invService)
	if err := sched.Start(ctx); err != nil {
		return err
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, pinger, server.Services{
		Catalog:   cat,
		Inventory: invService,
		Recipe:    recipeService,
		Discovery: discoveryService,
		MoonCycle: cycleService,
		Points:    pointsService,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("Received shutdown signal", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:    srv,
		Scheduler: sched,
		Recipe:    recipeService,
		Store:     closer,
	})

	return nil
}
