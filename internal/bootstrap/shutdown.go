package bootstrap

import (
	"context"

	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/server"
	"github.com/osgood/armorytrack/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown
type ShutdownComponents struct {
	Server     *server.Server
	PollWorker *worker.PollWorker
	ClosePool  func()
}

// GracefulShutdown stops the HTTP server first, then the poll worker, then
// closes the database pool. Errors are logged but never stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	logger.Info("Shutting down")

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			logger.Error("Server forced shutdown", "error", err)
		}
	}

	if components.PollWorker != nil {
		if err := components.PollWorker.Shutdown(ctx); err != nil {
			logger.Error("Poll worker shutdown failed", "error", err)
		}
	}

	if components.ClosePool != nil {
		components.ClosePool()
	}

	logger.Info("Shutdown complete")
}
