package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osgood/armorytrack/internal/blizzard"
	"github.com/osgood/armorytrack/internal/bootstrap"
	"github.com/osgood/armorytrack/internal/config"
	"github.com/osgood/armorytrack/internal/database"
	"github.com/osgood/armorytrack/internal/database/postgres"
	"github.com/osgood/armorytrack/internal/decode"
	"github.com/osgood/armorytrack/internal/export"
	"github.com/osgood/armorytrack/internal/gear"
	"github.com/osgood/armorytrack/internal/logger"
	"github.com/osgood/armorytrack/internal/pipeline"
	"github.com/osgood/armorytrack/internal/profile"
	"github.com/osgood/armorytrack/internal/progress"
	"github.com/osgood/armorytrack/internal/server"
	"github.com/osgood/armorytrack/internal/worker"
)

const (
	dbMaxConnections = 10
	dbMaxIdleTime    = 5 * time.Minute
	dbMaxLifetime    = 30 * time.Minute
	shutdownTimeout  = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	pool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConnections, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	characterRepo := postgres.NewCharacterRepository(pool)
	gearRepo := postgres.NewGearRepository(pool)
	progressRepo := postgres.NewProgressRepository(pool)

	locale := decode.NormalizeLocale(cfg.Locale)
	client, err := blizzard.NewClient(blizzard.Config{Locale: locale})
	if err != nil {
		logger.Error("Failed to create API client", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := client.Authenticate(ctx, cfg.ClientID, cfg.ClientSecret); err != nil {
		logger.Error("Failed to authenticate with upstream API", "error", err)
		os.Exit(1)
	}

	runner := pipeline.NewRunner(
		client,
		characterRepo,
		profile.NewMaterializer(decode.NewRegistry(locale)),
		gear.NewBuilder(gearRepo),
		progress.NewAggregator(gearRepo, progressRepo),
		export.NewWriter(cfg.StorageDir),
		cfg.Characters,
	)

	pollWorker := worker.NewPollWorker(runner, cfg.PollHourUTC)
	pollWorker.Start()

	// One immediate cycle so a fresh deployment has data before the first
	// scheduled poll
	go func() {
		if err := runner.RunCycle(ctx); err != nil {
			logger.Error("Initial poll cycle failed", "error", err)
		}
	}()

	srv := server.NewServer(cfg.Port, pool, characterRepo, gearRepo, progressRepo)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:     srv,
		PollWorker: pollWorker,
		ClosePool:  pool.Close,
	})
}
