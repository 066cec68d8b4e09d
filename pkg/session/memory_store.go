package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	session Session
	profile Profile
}

// MemoryStore implements Store with a mutex-protected map. Sessions are lost
// on restart; suitable for tests and single-instance deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ticker   *time.Ticker
	done     chan struct{}
}

// NewMemoryStore creates an in-memory store. When cleanupInterval > 0 a
// background goroutine periodically deletes expired rows.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

// Insert implements Store.
func (s *MemoryStore) Insert(_ context.Context, sess Session, profile Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = memoryEntry{session: sess, profile: profile}
	return nil
}

// FindByToken implements Store. Expired rows are reported as absent.
func (s *MemoryStore) FindByToken(_ context.Context, token string, now time.Time) (*Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[token]
	if !ok || e.session.IsExpired(now) {
		return nil, ErrSessionNotFound
	}
	return &Identity{Session: e.session, Profile: e.profile}, nil
}

// Touch implements Store.
func (s *MemoryStore) Touch(_ context.Context, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return ErrSessionNotFound
	}
	e.session.UpdatedAt = at
	s.sessions[token] = e
	return nil
}

// DeleteByToken implements Store.
func (s *MemoryStore) DeleteByToken(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[token]
	delete(s.sessions, token)
	return ok, nil
}

// DeleteByUser implements Store.
func (s *MemoryStore) DeleteByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for token, e := range s.sessions {
		if e.session.UserID == userID {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

// DeleteExpired implements Store.
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for token, e := range s.sessions {
		if e.session.IsExpired(now) {
			delete(s.sessions, token)
			count++
		}
	}
	return count, nil
}

// Len reports the number of stored sessions, expired included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the background cleanup goroutine.
func (s *MemoryStore) Close() error {
	if s.ticker != nil {
		s.ticker.Stop()
		close(s.done)
	}
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			_, _ = s.DeleteExpired(context.Background(), time.Now())
		case <-s.done:
			return
		}
	}
}
