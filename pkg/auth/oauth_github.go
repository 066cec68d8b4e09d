package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

// OAuthProviderGitHub identifies the GitHub adapter.
const OAuthProviderGitHub = "github"

const (
	githubUserURL   = "https://api.github.com/user"
	githubEmailsURL = "https://api.github.com/user/emails"
)

// GitHubOAuthConfig holds credentials for the GitHub provider.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
}

type githubAdapter struct {
	clientID     string
	clientSecret string
	scopes       []string
	httpClient   *http.Client
}

// NewGitHubAdapter creates the GitHub provider adapter.
func NewGitHubAdapter(cfg GitHubOAuthConfig) ProviderAdapter {
	return &githubAdapter{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		scopes:       cfg.Scopes,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *githubAdapter) ProviderID() string {
	return OAuthProviderGitHub
}

func (a *githubAdapter) conf(redirectURI string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       a.scopes,
		Endpoint:     github.Endpoint,
	}
}

func (a *githubAdapter) AuthURL(redirectURI, state string) (string, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return "", ErrProviderNotConfigured
	}
	return a.conf(redirectURI).AuthCodeURL(state), nil
}

// ResolveProfile exchanges the code and fetches the user. GitHub profiles
// often omit the public email, so /user/emails is consulted for a primary
// verified address.
func (a *githubAdapter) ResolveProfile(ctx context.Context, code, redirectURI string) (ProviderProfile, ProviderTokens, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	tok, err := a.conf(redirectURI).Exchange(ctx, code)
	if err != nil {
		return ProviderProfile{}, ProviderTokens{}, ErrInvalidCode
	}

	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := a.getJSON(ctx, githubUserURL, tok.AccessToken, &user); err != nil {
		return ProviderProfile{}, ProviderTokens{}, fmt.Errorf("fetch github user: %w", err)
	}

	email := user.Email
	verified := false
	if email == "" {
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := a.getJSON(ctx, githubEmailsURL, tok.AccessToken, &emails); err != nil {
			return ProviderProfile{}, ProviderTokens{}, fmt.Errorf("fetch github emails: %w", err)
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				verified = true
				break
			}
		}
		if email == "" {
			for _, e := range emails {
				if e.Verified {
					email = e.Email
					verified = true
					break
				}
			}
		}
	}

	name := user.Name
	if name == "" {
		name = user.Login
	}

	return ProviderProfile{
		ProviderAccountID: strconv.FormatInt(user.ID, 10),
		Email:             email,
		Name:              name,
		Image:             user.AvatarURL,
		EmailVerified:     verified,
	}, providerTokens(tok), nil
}

func (a *githubAdapter) getJSON(ctx context.Context, url, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github api returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ ProviderAdapter = (*githubAdapter)(nil)
