package caching

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestStore(ttl time.Duration) (*Store, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(ttl, nil)
	s.now = c.now
	return s, c
}

func TestStore_GetOrLoadCachesUntilExpiry(t *testing.T) {
	s, c := newTestStore(time.Minute)
	calls := 0
	load := func(ctx context.Context) (any, error) {
		calls++
		return calls, nil
	}

	v, err := s.GetOrLoad(context.Background(), "home", load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _ = s.GetOrLoad(context.Background(), "home", load)
	assert.Equal(t, 1, v)

	c.advance(61 * time.Second)
	v, _ = s.GetOrLoad(context.Background(), "home", load)
	assert.Equal(t, 2, v)
	assert.Equal(t, 2, calls)
}

func TestStore_ConcurrentMissesShareOneLoad(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	var calls int32
	release := make(chan struct{})

	load := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "projects", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = s.GetOrLoad(context.Background(), "projects", load)
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, "projects", r)
	}
}

func TestStore_ServesStaleOnFailedReload(t *testing.T) {
	s, c := newTestStore(time.Minute)
	s.Set("chrome", "old footer")
	c.advance(2 * time.Minute)

	v, err := s.GetOrLoad(context.Background(), "chrome", func(ctx context.Context) (any, error) {
		return nil, errors.New("cms down")
	})
	require.NoError(t, err)
	assert.Equal(t, "old footer", v)
	assert.Equal(t, int64(1), s.Stats()["stale"])
}

func TestStore_ErrorWithoutStaleValue(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	_, err := s.GetOrLoad(context.Background(), "about", func(ctx context.Context) (any, error) {
		return nil, errors.New("cms down")
	})
	assert.EqualError(t, err, "cms down")
	assert.Equal(t, 0, s.Len())
}

func TestStore_PurgeAndInvalidate(t *testing.T) {
	s, c := newTestStore(time.Minute)
	s.Set("page:home", 1)
	s.Set("page:about", 2)
	s.SetWithTTL("sitemap", 3, time.Hour)

	c.advance(2 * time.Minute)
	assert.Equal(t, 0, s.PurgeExpired(5*time.Minute))
	assert.Equal(t, 2, s.PurgeExpired(0))
	assert.Equal(t, 1, s.Len())

	s.Set("page:home", 1)
	assert.Equal(t, 1, s.Invalidate("page:"))
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestFetch_Typed(t *testing.T) {
	s, _ := newTestStore(time.Minute)
	got, err := Fetch(context.Background(), s, "slugs", func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	s.Set("wrong", 42)
	_, err = Fetch(context.Background(), s, "wrong", func(ctx context.Context) (string, error) {
		return "", nil
	})
	assert.Error(t, err)
}

func TestQueryKey_StableAcrossVariableOrder(t *testing.T) {
	a := QueryKey("cms", "query A { x }", map[string]any{"slug": "x", "first": 10})
	b := QueryKey("cms", "query A { x }", map[string]any{"first": 10, "slug": "x"})
	c := QueryKey("cms", "query A { x }", map[string]any{"slug": "y"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "cms:")
}

func TestWarmingLock(t *testing.T) {
	l := NewWarmingLock()
	require.True(t, l.TryLock("warm"))
	assert.False(t, l.TryLock("warm"))
	assert.True(t, l.Held("warm"))
	l.Unlock("warm")
	assert.True(t, l.TryLock("warm"))
}
