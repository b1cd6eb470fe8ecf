// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magnetomarketing/magneto-web/internal/application/container"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching/cleanup"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/performance"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/persistence/database"
	"github.com/magnetomarketing/magneto-web/internal/presentation/http/server"
	"github.com/magnetomarketing/magneto-web/pkg/config"
)

// NewLogger builds the channelled logger from pkg/config.
func NewLogger() (*logging.ChanneledLogger, error) {
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = config.LogToFile
	cfg.LogDirectory = config.LogDirectory
	cfg.JSONFormat = config.LogJSON
	cfg.DefaultLevel = logging.ParseLevel(config.LogLevel)
	cfg.ChannelLevels = logging.ChannelLevelsFromEnv()
	return logging.NewChanneledLogger(cfg)
}

// Initialize performs the complete startup sequence and blocks until a
// shutdown signal arrives.
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[35m" + `
  █▀▄▀█ ▄▀█ █▀▀ █▄ █ █▀▀ ▀█▀ █▀█
  █ ▀ █ █▀█ █▄█ █ ▀█ ██▄  █  █▄█
` + "\033[97m" + `
  marketing site server
` + "\033[0m")

	// Step 1: Initialize logging
	log.Println("Initializing channelled logging...")
	logger, err := NewLogger()
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()
	logger.Startup().Info("Logger initialized - switching to channeled logging")

	// Step 2: Performance tracking feeds the operation histogram
	perfTracker := performance.NewTracker(nil)
	perfTracker.SetObserver(metrics.ObserveOperation)

	// Step 3: Open the lead ledger. A broken ledger degrades to not
	// recording submissions.
	logger.Startup().Info("Opening lead ledger...", "driver", config.DBDriver, "turso", config.TursoDatabaseURL != "")
	ledgerStart := time.Now()
	ledger, err := database.OpenLedger(logger)
	if err != nil {
		logger.Startup().Error("Lead ledger unavailable, submissions will not be recorded", "error", err.Error())
		ledger = nil
	}
	logger.LogStartupPhase("ledger", time.Since(ledgerStart), err == nil, map[string]any{"driver": config.DBDriver})

	// Step 4: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	containerStart := time.Now()
	appContainer, err := container.NewContainer(logger, perfTracker, ledger)
	logger.LogStartupPhase("container", time.Since(containerStart), err == nil, nil)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	// Step 5: Initial cache warm
	logger.Startup().Info("Warming content cache...")
	startWarmTime := time.Now()
	warmed := appContainer.CacheWarmerService.RunOnce(ctx)
	logger.LogStartupPhase("cache_warm", time.Since(startWarmTime), warmed, map[string]any{"entries": appContainer.ContentCache.Len()})

	// Step 6: Scheduled warming
	if err := appContainer.CacheWarmerService.Start(ctx); err != nil {
		logger.LogError(logging.ChannelStartup, "cache_warm_schedule", err, map[string]any{"schedule": config.CacheWarmCron})
	}

	// Step 7: Start background cleanup worker
	logger.Startup().Info("Starting background cleanup worker...")
	cleanupWorker := cleanup.NewWorker(appContainer.ContentCache, cleanup.NewConfig(), logger, perfTracker, appContainer.RateLimiter)
	go cleanupWorker.Start(ctx)

	// Step 8: Start HTTP server
	httpServer := server.New(config.Port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port,
		"cms", appContainer.CMS.Endpoint())

	// Wait for shutdown signal
	select {
	case <-gracefulShutdown:
		logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		if err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
			closeLedger(logger, ledger)
			return err
		}
	}

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	closeLedger(logger, ledger)

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

func closeLedger(logger *logging.ChanneledLogger, ledger *database.DB) {
	if ledger == nil {
		return
	}
	logger.Shutdown().Info("Closing lead ledger...")
	if err := ledger.Close(); err != nil {
		logger.Shutdown().Error("Error closing lead ledger", "error", err.Error())
	}
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
