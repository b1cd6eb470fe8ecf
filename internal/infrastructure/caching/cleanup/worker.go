// Package cleanup provides background worker
package cleanup

import (
	"context"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
)

// Purger is a cache that can drop expired entries.
type Purger interface {
	PurgeExpired(grace time.Duration) int
	Len() int
}

// Pruner is anything that trims its own retained history, such as the
// performance tracker.
type Pruner interface {
	Cleanup()
}

// Worker handles background cache cleanup operations
type Worker struct {
	store   Purger
	pruners []Pruner
	config  *Config
	logger  *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(store Purger, config *Config, logger *logging.ChanneledLogger, pruners ...Pruner) *Worker {
	return &Worker{
		store:   store,
		pruners: pruners,
		config:  config,
		logger:  logger,
	}
}

// Start begins the cleanup worker routine, using the configured interval
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of purged entries.
func (w *Worker) RunOnce() int {
	start := time.Now()
	before := w.store.Len()

	cleaned := w.store.PurgeExpired(w.config.StaleGrace)
	for _, p := range w.pruners {
		p.Cleanup()
	}

	duration := time.Since(start)
	if cleaned > 0 {
		w.logger.Cache().Info("Cache cleanup finished",
			"cleaned", cleaned, "before", before, "duration", duration)
	} else if w.config.VerboseReporting {
		w.logger.Cache().Debug("Cache cleanup completed - no expired items found", "entries", before, "duration", duration)
	}
	return cleaned
}
