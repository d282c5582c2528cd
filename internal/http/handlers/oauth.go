package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"getmeachai/internal/identity"
	"getmeachai/internal/infra"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

var errEmailNotVerified = errors.New("provider email not verified")

// OAuthProvider bundles the oauth2 config for one identity provider with a
// fetcher that turns an exchanged token into a ProviderIdentity.
type OAuthProvider struct {
	Name   string
	Config *oauth2.Config

	// UserInfoURL / EmailsURL are overridable for tests.
	UserInfoURL string
	EmailsURL   string
}

// NewOAuthProviders builds the configured provider set. Providers without
// client credentials are left out; login attempts for them get a 400.
func NewOAuthProviders(cfg *infra.Config) map[string]*OAuthProvider {
	providers := make(map[string]*OAuthProvider)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		providers["google"] = &OAuthProvider{
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				RedirectURL:  cfg.PublicBaseURL + "/auth/google/callback",
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			UserInfoURL: googleUserInfoURL,
		}
	}
	if cfg.GithubClientID != "" && cfg.GithubClientSecret != "" {
		providers["github"] = &OAuthProvider{
			Name: "github",
			Config: &oauth2.Config{
				ClientID:     cfg.GithubClientID,
				ClientSecret: cfg.GithubClientSecret,
				RedirectURL:  cfg.PublicBaseURL + "/auth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			UserInfoURL: githubUserURL,
			EmailsURL:   githubEmailsURL,
		}
	}
	return providers
}

// FetchIdentity retrieves the provider's view of the logged-in user using the
// token-authorized client.
func (p *OAuthProvider) FetchIdentity(ctx context.Context, client *http.Client) (identity.ProviderIdentity, error) {
	switch p.Name {
	case "google":
		return p.fetchGoogleIdentity(ctx, client)
	case "github":
		return p.fetchGithubIdentity(ctx, client)
	default:
		return identity.ProviderIdentity{}, fmt.Errorf("unknown provider %q", p.Name)
	}
}

func (p *OAuthProvider) fetchGoogleIdentity(ctx context.Context, client *http.Client) (identity.ProviderIdentity, error) {
	var info struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(ctx, client, p.UserInfoURL, &info); err != nil {
		return identity.ProviderIdentity{}, err
	}
	if !info.EmailVerified {
		return identity.ProviderIdentity{}, errEmailNotVerified
	}
	return identity.ProviderIdentity{
		Provider:      "google",
		Subject:       info.Sub,
		Email:         info.Email,
		EmailVerified: info.EmailVerified,
		Name:          info.Name,
		AvatarURL:     info.Picture,
	}, nil
}

func (p *OAuthProvider) fetchGithubIdentity(ctx context.Context, client *http.Client) (identity.ProviderIdentity, error) {
	var user struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}
	if err := getJSON(ctx, client, p.UserInfoURL, &user); err != nil {
		return identity.ProviderIdentity{}, err
	}

	email := user.Email
	verified := email != ""
	if email == "" && p.EmailsURL != "" {
		// The public profile email is often unset; the primary address
		// comes from the emails endpoint.
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(ctx, client, p.EmailsURL, &emails); err != nil {
			return identity.ProviderIdentity{}, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				verified = true
				break
			}
		}
	}

	return identity.ProviderIdentity{
		Provider:      "github",
		Subject:       strconv.FormatInt(user.ID, 10),
		Email:         email,
		EmailVerified: verified,
		Name:          user.Name,
		AvatarURL:     user.AvatarURL,
		Login:         user.Login,
	}, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo request to %s failed with status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
