package guard

import (
	"context"
	"sync"
	"time"
)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
	blocked bool
}

// MemoryRateLimitStore implements RateLimitStore with a mutex-protected map.
// State is process-local and does not survive restarts; suitable for
// single-instance deployments only.
type MemoryRateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	ticker  *time.Ticker
	done    chan struct{}
}

// NewMemoryRateLimitStore creates an in-memory store. When sweepInterval > 0
// a background goroutine periodically drops elapsed, non-blocked entries to
// bound memory.
func NewMemoryRateLimitStore(sweepInterval time.Duration) *MemoryRateLimitStore {
	s := &MemoryRateLimitStore{
		entries: make(map[string]*rateLimitEntry),
		done:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		go s.sweepLoop()
	}

	return s
}

// Hit implements RateLimitStore. The whole check-then-increment runs under
// the store mutex so concurrent hits for the same key serialize.
func (s *MemoryRateLimitStore) Hit(_ context.Context, key string, now time.Time, cfg RateLimitConfig) (*RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		// Fresh window, whether first-seen, elapsed, or an expired block.
		e = &rateLimitEntry{count: 1, resetAt: now.Add(cfg.Window)}
		s.entries[key] = e
		return &RateLimitResult{Allowed: true, Remaining: cfg.MaxAttempts - 1, ResetAt: e.resetAt}, nil
	}

	if e.blocked {
		return &RateLimitResult{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}

	e.count++
	if e.count > cfg.MaxAttempts {
		e.blocked = true
		e.resetAt = e.resetAt.Add(cfg.BlockDuration)
		return &RateLimitResult{Allowed: false, Remaining: 0, ResetAt: e.resetAt}, nil
	}

	return &RateLimitResult{Allowed: true, Remaining: cfg.MaxAttempts - e.count, ResetAt: e.resetAt}, nil
}

// Reset implements RateLimitStore.
func (s *MemoryRateLimitStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep removes entries whose window has elapsed and which are not blocked.
// Blocked entries keep their state until their own deadline passes, at which
// point Hit resets them lazily.
func (s *MemoryRateLimitStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.entries {
		if !e.blocked && now.After(e.resetAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked identifiers.
func (s *MemoryRateLimitStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweeper.
func (s *MemoryRateLimitStore) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
	return nil
}

func (s *MemoryRateLimitStore) sweepLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.Sweep(time.Now())
		case <-s.done:
			return
		}
	}
}
