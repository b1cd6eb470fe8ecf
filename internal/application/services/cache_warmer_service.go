package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/robfig/cron/v3"
)

const (
	warmLockKey = "content"
	warmTimeout = 2 * time.Minute
)

// Warmer preloads cached content.
type Warmer interface {
	Warm(ctx context.Context)
}

// CacheWarmerService refreshes the content cache on a cron schedule so
// visitors rarely pay for a CMS round trip.
type CacheWarmerService struct {
	warmer   Warmer
	lock     *caching.WarmingLock
	schedule string
	logger   *logging.ChanneledLogger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCacheWarmerService creates a warmer for schedule, any expression
// robfig/cron accepts including "@every 5m".
func NewCacheWarmerService(warmer Warmer, lock *caching.WarmingLock, schedule string, logger *logging.ChanneledLogger) *CacheWarmerService {
	if lock == nil {
		lock = caching.NewWarmingLock()
	}
	return &CacheWarmerService{
		warmer:   warmer,
		lock:     lock,
		schedule: schedule,
		logger:   logger,
	}
}

// Start schedules warming and stops it when ctx is cancelled. An empty
// schedule disables warming.
func (s *CacheWarmerService) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Cache().Info("Cache warming disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cache warm schedule %q: %w", s.schedule, err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()

	c.Start()
	s.logger.Cache().Info("Cache warming scheduled", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		<-c.Stop().Done()
		s.logger.Cache().Info("Cache warming stopped")
	}()
	return nil
}

// RunOnce warms the cache unless a run is already in progress. It reports
// whether this call did the work.
func (s *CacheWarmerService) RunOnce(ctx context.Context) bool {
	if !s.lock.TryLock(warmLockKey) {
		s.logger.Cache().Debug("Cache warming already running, skipping")
		return false
	}
	defer s.lock.Unlock(warmLockKey)

	ctx, cancel := context.WithTimeout(ctx, warmTimeout)
	defer cancel()

	start := time.Now()
	s.warmer.Warm(ctx)
	s.logger.Cache().Info("Cache warming completed", "duration", time.Since(start))
	return true
}
