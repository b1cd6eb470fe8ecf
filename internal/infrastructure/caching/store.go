// Package caching provides the in-process content cache and related utilities.
package caching

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/logging"
	"github.com/magnetomarketing/magneto-web/internal/infrastructure/observability/metrics"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a missing or expired key.
type Loader func(ctx context.Context) (any, error)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a TTL cache whose concurrent misses for one key share a
// single load. Expired entries are kept until purged so a failed reload
// can serve the previous value.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	group   singleflight.Group
	logger  *logging.ChanneledLogger
	now     func() time.Time

	hits   int64
	misses int64
	stale  int64
}

// NewStore creates a store with the given default TTL.
func NewStore(ttl time.Duration, logger *logging.ChanneledLogger) *Store {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// TTL returns the default time to live.
func (s *Store) TTL() time.Duration { return s.ttl }

// Get returns a fresh value for key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (s *Store) Set(key string, value any) {
	s.SetWithTTL(key, value, s.ttl)
}

// SetWithTTL stores value under key for ttl.
func (s *Store) SetWithTTL(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or runs load once for all
// concurrent callers. When load fails and an expired value exists, the
// expired value is returned instead of the error.
func (s *Store) GetOrLoad(ctx context.Context, key string, load Loader) (any, error) {
	start := s.now()
	if v, ok := s.Get(key); ok {
		s.count(&s.hits)
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		s.logger.LogCacheOperation("get", key, true, s.now().Sub(start))
		return v, nil
	}
	s.count(&s.misses)
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	v, err, shared := s.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, value)
		return value, nil
	})
	if err == nil {
		s.logger.LogCacheOperation("load", key, false, s.now().Sub(start))
		if shared {
			s.logger.Cache().Debug("Shared in-flight load", "key", key)
		}
		return v, nil
	}

	s.mu.RLock()
	old, ok := s.entries[key]
	s.mu.RUnlock()
	if ok {
		s.count(&s.stale)
		metrics.CacheLookups.WithLabelValues("stale").Inc()
		s.logger.Cache().Warn("Serving stale entry after failed reload", "key", key, "error", err.Error())
		return old.value, nil
	}
	return nil, err
}

// Invalidate drops every key with the given prefix and returns how many.
func (s *Store) Invalidate(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
}

// PurgeExpired removes entries that expired more than grace ago.
func (s *Store) PurgeExpired(grace time.Duration) int {
	cutoff := s.now().Add(-grace)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, e := range s.entries {
		if e.expiresAt.Before(cutoff) {
			delete(s.entries, k)
			n++
		}
	}
	return n
}

// Len returns the number of stored entries, fresh or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats reports counters for the health endpoint.
func (s *Store) Stats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]any{
		"entries": len(s.entries),
		"hits":    s.hits,
		"misses":  s.misses,
		"stale":   s.stale,
		"ttl":     s.ttl.String(),
	}
}

func (s *Store) count(c *int64) {
	s.mu.Lock()
	*c++
	s.mu.Unlock()
}

// QueryKey derives a cache key from a GraphQL document and its variables.
func QueryKey(namespace, document string, variables map[string]any) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(document))
	if len(variables) > 0 {
		// map keys are marshalled in sorted order
		b, _ := json.Marshal(variables)
		h.Write(b)
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))[:32]
}

// Fetch is a typed wrapper over GetOrLoad.
func Fetch[T any](ctx context.Context, s *Store, key string, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value for %s has type %T", key, v)
	}
	return typed, nil
}
