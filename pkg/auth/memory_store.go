package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with mutex-protected maps. Data is lost on
// restart; intended for tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[uuid.UUID]User
	byEmail  map[string]uuid.UUID
	accounts map[string]Account // keyed by provider + "\x00" + providerAccountID
	hashes   map[uuid.UUID][]byte
	tokens   map[string]VerificationToken // keyed by identifier + "\x00" + token
}

// NewMemoryStore creates an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]User),
		byEmail:  make(map[string]uuid.UUID),
		accounts: make(map[string]Account),
		hashes:   make(map[uuid.UUID][]byte),
		tokens:   make(map[string]VerificationToken),
	}
}

func accountKey(provider, providerAccountID string) string {
	return provider + "\x00" + providerAccountID
}

func tokenKey(identifier, token string) string {
	return identifier + "\x00" + token
}

// FindUserByEmail implements Store.
func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

// FindUserByID implements Store.
func (s *MemoryStore) FindUserByID(_ context.Context, id uuid.UUID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

// InsertUser implements Store.
func (s *MemoryStore) InsertUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailAlreadyExists
	}
	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

// UpdateUser implements Store.
func (s *MemoryStore) UpdateUser(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if old.Email != user.Email {
		delete(s.byEmail, old.Email)
		s.byEmail[user.Email] = user.ID
	}
	s.users[user.ID] = *user
	return nil
}

// FindAccountByProvider implements Store.
func (s *MemoryStore) FindAccountByProvider(_ context.Context, provider, providerAccountID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[accountKey(provider, providerAccountID)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &a, nil
}

// InsertAccount implements Store.
func (s *MemoryStore) InsertAccount(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey(account.Provider, account.ProviderAccountID)] = *account
	return nil
}

// UpdateAccountTokens implements Store.
func (s *MemoryStore) UpdateAccountTokens(_ context.Context, accountID uuid.UUID, tokens ProviderTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, a := range s.accounts {
		if a.ID == accountID {
			a.AccessToken = tokens.AccessToken
			if tokens.RefreshToken != "" {
				a.RefreshToken = tokens.RefreshToken
			}
			a.ExpiresAt = tokens.ExpiresAt
			a.UpdatedAt = time.Now()
			s.accounts[key] = a
			return nil
		}
	}
	return ErrAccountNotFound
}

// GetPasswordHash implements Store.
func (s *MemoryStore) GetPasswordHash(_ context.Context, userID uuid.UUID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.hashes[userID]
	if !ok {
		return nil, ErrPasswordHashNotFound
	}
	out := make([]byte, len(hash))
	copy(out, hash)
	return out, nil
}

// SetPasswordHash implements Store.
func (s *MemoryStore) SetPasswordHash(_ context.Context, userID uuid.UUID, hash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(hash))
	copy(stored, hash)
	s.hashes[userID] = stored
	return nil
}

// FindVerificationToken implements Store.
func (s *MemoryStore) FindVerificationToken(_ context.Context, identifier, token string) (*VerificationToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vt, ok := s.tokens[tokenKey(identifier, token)]
	if !ok {
		return nil, ErrVerificationTokenNotFound
	}
	return &vt, nil
}

// InsertVerificationToken implements Store.
func (s *MemoryStore) InsertVerificationToken(_ context.Context, vt VerificationToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenKey(vt.Identifier, vt.Token)] = vt
	return nil
}

// DeleteVerificationToken implements Store.
func (s *MemoryStore) DeleteVerificationToken(_ context.Context, identifier, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenKey(identifier, token))
	return nil
}

// DeleteExpiredVerificationTokens implements Store.
func (s *MemoryStore) DeleteExpiredVerificationTokens(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for key, vt := range s.tokens {
		if vt.ExpiresAt.Before(now) {
			delete(s.tokens, key)
			count++
		}
	}
	return count, nil
}
