package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OAuthProviderGoogle identifies the Google adapter.
const OAuthProviderGoogle = "google"

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleOAuthConfig holds credentials for the Google provider.
type GoogleOAuthConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email,profile"`
}

type googleAdapter struct {
	clientID     string
	clientSecret string
	scopes       []string
	httpClient   *http.Client
}

// NewGoogleAdapter creates the Google provider adapter.
func NewGoogleAdapter(cfg GoogleOAuthConfig) ProviderAdapter {
	return &googleAdapter{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *googleAdapter) ProviderID() string {
	return OAuthProviderGoogle
}

func (a *googleAdapter) conf(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       a.scopes,
		Endpoint:     google.Endpoint,
	}
}

// AuthURL requests offline access with forced consent so a refresh token is
// issued on every authorization, not only the first.
func (a *googleAdapter) AuthURL(redirectURI, state string) (string, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return "", ErrProviderNotConfigured
	}
	return a.conf(redirectURI).AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (a *googleAdapter) ResolveProfile(ctx context.Context, code, redirectURI string) (ProviderProfile, ProviderTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	tok, err := a.conf(redirectURI).Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ProviderTokens{}, ErrInvalidCode
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return ProviderProfile{}, ProviderTokens{}, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return ProviderProfile{}, ProviderTokens{}, fmt.Errorf("fetch google profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return ProviderProfile{}, ProviderTokens{}, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return ProviderProfile{}, ProviderTokens{}, fmt.Errorf("decode google profile: %w", err)
	}

	return ProviderProfile{
		ProviderAccountID: info.ID,
		Email:             info.Email,
		Name:              info.Name,
		Image:             info.Picture,
		EmailVerified:     info.VerifiedEmail,
	}, providerTokens(tok), nil
}

func providerTokens(tok *oauth2.Token) ProviderTokens {
	tokens := ProviderTokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		tokens.ExpiresAt = &expiry
	}
	return tokens
}

var _ ProviderAdapter = (*googleAdapter)(nil)
