package bootstrap

import (
	"context"
	"log/slog"

	"github.com/moonlinghq/moonling-core/internal/recipe"
	"github.com/moonlinghq/moonling-core/internal/scheduler"
	"github.com/moonlinghq/moonling-core/internal/server"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server    *server.Server
	Scheduler *scheduler.Scheduler
	Recipe    recipe.Service
	Store     interface{ Close() }
}

// GracefulShutdown stops all application components in order:
// 1. HTTP server (stop accepting new requests)
// 2. Discovery scheduler (finish any in-flight poll)
// 3. Recipe service (cancel pending craft timers)
// 4. Storage connection
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop(ctx)
	}

	if components.Recipe != nil {
		components.Recipe.Shutdown()
	}

	if components.Store != nil {
		components.Store.Close()
		slog.Info(LogMsgStoreClosed)
	}

	slog.Info(LogMsgServerStopped)
}
