package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/infrastructure/caching"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/stretchr/testify/assert"
)

type countingWarmer struct {
	calls int32
	block chan struct{}
}

func (w *countingWarmer) Warm(ctx context.Context) {
	atomic.AddInt32(&w.calls, 1)
	if w.block != nil {
		<-w.block
	}
}

func TestCacheWarmer_RunOnceSkipsWhileRunning(t *testing.T) {
	warmer := &countingWarmer{block: make(chan struct{})}
	lock := caching.NewWarmingLock()
	svc := NewCacheWarmerService(warmer, lock, "@every 1h", logging.NewNopLogger())

	done := make(chan bool)
	go func() { done <- svc.RunOnce(context.Background()) }()

	assert.Eventually(t, func() bool { return lock.Held(warmLockKey) }, time.Second, 5*time.Millisecond)
	assert.False(t, svc.RunOnce(context.Background()))

	close(warmer.block)
	assert.True(t, <-done)
	assert.False(t, lock.Held(warmLockKey))
	assert.Equal(t, int32(1), atomic.LoadInt32(&warmer.calls))
}

func TestCacheWarmer_Start(t *testing.T) {
	svc := NewCacheWarmerService(&countingWarmer{}, nil, "not a schedule", logging.NewNopLogger())
	assert.Error(t, svc.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.NoError(t, NewCacheWarmerService(&countingWarmer{}, nil, "@every 1h", logging.NewNopLogger()).Start(ctx))
	assert.NoError(t, NewCacheWarmerService(&countingWarmer{}, nil, "", logging.NewNopLogger()).Start(ctx))
}
