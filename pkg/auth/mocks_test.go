package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of the credential Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) FindUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockStore) InsertUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) UpdateUser(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockStore) FindAccountByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error) {
	args := m.Called(ctx, provider, providerAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Account), args.Error(1)
}

func (m *MockStore) InsertAccount(ctx context.Context, account *Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockStore) UpdateAccountTokens(ctx context.Context, accountID uuid.UUID, tokens ProviderTokens) error {
	args := m.Called(ctx, accountID, tokens)
	return args.Error(0)
}

func (m *MockStore) GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	args := m.Called(ctx, userID, hash)
	return args.Error(0)
}

func (m *MockStore) FindVerificationToken(ctx context.Context, identifier, token string) (*VerificationToken, error) {
	args := m.Called(ctx, identifier, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationToken), args.Error(1)
}

func (m *MockStore) InsertVerificationToken(ctx context.Context, vt VerificationToken) error {
	args := m.Called(ctx, vt)
	return args.Error(0)
}

func (m *MockStore) DeleteVerificationToken(ctx context.Context, identifier, token string) error {
	args := m.Called(ctx, identifier, token)
	return args.Error(0)
}

func (m *MockStore) DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// fakeAdapter is a canned ProviderAdapter for flow tests; no network.
type fakeAdapter struct {
	id      string
	profile ProviderProfile
	tokens  ProviderTokens
	err     error
}

func (a *fakeAdapter) ProviderID() string { return a.id }

func (a *fakeAdapter) AuthURL(redirectURI, state string) (string, error) {
	return "https://provider.example.com/authorize?redirect_uri=" + redirectURI + "&state=" + state, nil
}

func (a *fakeAdapter) ResolveProfile(_ context.Context, _, _ string) (ProviderProfile, ProviderTokens, error) {
	if a.err != nil {
		return ProviderProfile{}, ProviderTokens{}, a.err
	}
	return a.profile, a.tokens, nil
}
