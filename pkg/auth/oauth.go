package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/logger"
	"github.com/dmitrymomot/authkit/pkg/sanitizer"
)

// ProviderAdapter is an immutable provider descriptor paired with the
// credentials configured at startup. Adapters hide provider-specific wire
// details (endpoints, scopes, field mapping) from the core flow.
type ProviderAdapter interface {
	// ProviderID returns the stable provider identifier, e.g. "google".
	ProviderID() string

	// AuthURL builds the provider's authorization endpoint URL carrying the
	// given redirect URI and state.
	AuthURL(redirectURI, state string) (string, error)

	// ResolveProfile exchanges the authorization code and returns the
	// normalized profile plus the exchanged tokens. A rejected code maps to
	// ErrInvalidCode.
	ResolveProfile(ctx context.Context, code, redirectURI string) (ProviderProfile, ProviderTokens, error)
}

// OAuthService resolves provider callbacks to local users.
type OAuthService struct {
	store             Store
	adapters          map[string]ProviderAdapter
	allowEmailLinking bool
	log               *slog.Logger
	now               func() time.Time
}

// OAuthOption configures an OAuthService.
type OAuthOption func(*OAuthService)

// WithProvider registers a provider adapter.
func WithProvider(adapter ProviderAdapter) OAuthOption {
	return func(s *OAuthService) { s.adapters[adapter.ProviderID()] = adapter }
}

// WithAllowEmailLinking enables merging a callback into an existing user that
// shares the profile email. Off by default: trusting the provider's email
// verification enough to attach a new sign-in method to a pre-existing
// account is the integrator's call, not this package's.
func WithAllowEmailLinking(allow bool) OAuthOption {
	return func(s *OAuthService) { s.allowEmailLinking = allow }
}

// WithOAuthLogger sets the service logger.
func WithOAuthLogger(log *slog.Logger) OAuthOption {
	return func(s *OAuthService) { s.log = log }
}

// WithOAuthClock overrides the time source. Intended for tests.
func WithOAuthClock(now func() time.Time) OAuthOption {
	return func(s *OAuthService) { s.now = now }
}

// NewOAuthService creates an OAuth manager over the store.
func NewOAuthService(store Store, opts ...OAuthOption) *OAuthService {
	s := &OAuthService{
		store:    store,
		adapters: make(map[string]ProviderAdapter),
		log:      logger.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Providers lists the configured provider IDs, sorted.
func (s *OAuthService) Providers() []string {
	ids := make([]string, 0, len(s.adapters))
	for id := range s.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Configured reports whether the provider has a registered adapter.
func (s *OAuthService) Configured(providerID string) bool {
	_, ok := s.adapters[providerID]
	return ok
}

// AuthorizationURL builds the provider's authorization URL for the redirect
// URI and caller-supplied state.
func (s *OAuthService) AuthorizationURL(providerID, redirectURI, state string) (string, error) {
	adapter, ok := s.adapters[providerID]
	if !ok {
		return "", ErrProviderNotConfigured
	}
	return adapter.AuthURL(redirectURI, state)
}

// GenerateState returns a random state value for the authorization redirect.
// The caller persists it (cookie, server-side store) and checks the callback
// echo with VerifyState before exchanging the code.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerifyState compares the issued state with the callback echo in constant
// time. A mismatch must abort the flow before any network call.
func VerifyState(issued, received string) error {
	if issued == "" || received == "" {
		return ErrStateMismatch
	}
	if len(issued) != len(received) {
		return ErrStateMismatch
	}
	if subtle.ConstantTimeCompare([]byte(issued), []byte(received)) != 1 {
		return ErrStateMismatch
	}
	return nil
}

// HandleCallback exchanges the code through the provider adapter and resolves
// the profile to a user.
//
// Resolution order: an existing account for (provider, providerAccountID)
// reuses its user and refreshes stored tokens; otherwise an existing user
// with the profile email is linked only when email linking is enabled;
// otherwise a new user is created with EmailVerified=true, since the
// provider vouched for the address.
func (s *OAuthService) HandleCallback(ctx context.Context, providerID, code, redirectURI string) (*User, error) {
	adapter, ok := s.adapters[providerID]
	if !ok {
		return nil, ErrProviderNotConfigured
	}

	profile, tokens, err := adapter.ResolveProfile(ctx, code, redirectURI)
	if err != nil {
		return nil, err
	}
	if profile.ProviderAccountID == "" {
		return nil, fmt.Errorf("provider %s returned profile without account id", providerID)
	}
	if profile.Email == "" {
		return nil, ErrMissingEmail
	}
	profile.Email = sanitizer.NormalizeEmail(profile.Email)

	account, err := s.store.FindAccountByProvider(ctx, providerID, profile.ProviderAccountID)
	if err == nil {
		if err := s.store.UpdateAccountTokens(ctx, account.ID, tokens); err != nil {
			return nil, fmt.Errorf("refresh account tokens: %w", err)
		}
		user, err := s.store.FindUserByID(ctx, account.UserID)
		if err != nil {
			return nil, fmt.Errorf("load account owner: %w", err)
		}
		return user, nil
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return nil, fmt.Errorf("check existing account: %w", err)
	}

	user, err := s.store.FindUserByEmail(ctx, profile.Email)
	switch {
	case err == nil:
		if !s.allowEmailLinking {
			return nil, ErrProviderEmailInUse
		}
		s.log.Info("linking oauth account to existing user by email",
			logger.UserID(user.ID.String()),
			logger.Provider(providerID),
		)
	case errors.Is(err, ErrUserNotFound):
		now := s.now()
		user = &User{
			ID:            uuid.New(),
			Email:         profile.Email,
			Name:          profile.Name,
			EmailVerified: true,
			Image:         profile.Image,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.store.InsertUser(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("check existing email: %w", err)
	}

	now := s.now()
	if err := s.store.InsertAccount(ctx, &Account{
		ID:                uuid.New(),
		UserID:            user.ID,
		Provider:          providerID,
		ProviderAccountID: profile.ProviderAccountID,
		AccessToken:       tokens.AccessToken,
		RefreshToken:      tokens.RefreshToken,
		ExpiresAt:         tokens.ExpiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}); err != nil {
		return nil, fmt.Errorf("link account: %w", err)
	}

	return user, nil
}
