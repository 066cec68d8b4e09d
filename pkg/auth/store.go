package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the credential store consumed by the password and OAuth services.
// Implementations return the package sentinels (ErrUserNotFound and friends)
// for absent rows and own their transaction discipline; every method is
// treated as an atomic unit.
type Store interface {
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	InsertUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, user *User) error

	FindAccountByProvider(ctx context.Context, provider, providerAccountID string) (*Account, error)
	InsertAccount(ctx context.Context, account *Account) error
	UpdateAccountTokens(ctx context.Context, accountID uuid.UUID, tokens ProviderTokens) error

	GetPasswordHash(ctx context.Context, userID uuid.UUID) ([]byte, error)
	SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error

	FindVerificationToken(ctx context.Context, identifier, token string) (*VerificationToken, error)
	InsertVerificationToken(ctx context.Context, vt VerificationToken) error
	DeleteVerificationToken(ctx context.Context, identifier, token string) error
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)
}
