// Package oauth starts and completes sign-in with external identity
// providers. Only Google is configured today.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nfrund/propmgr/internal/domain"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Provider is an OAuth 2.0 authorization-code identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	// Identity exchanges an authorization code and returns the user it
	// belongs to.
	Identity(ctx context.Context, code string) (domain.OAuthIdentity, error)
}

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider configures Google with the email and profile scopes.
// redirectURL must match the callback registered with Google.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Identity(ctx context.Context, code string) (domain.OAuthIdentity, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domain.OAuthIdentity{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return domain.OAuthIdentity{}, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return domain.OAuthIdentity{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.OAuthIdentity{}, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var data struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return domain.OAuthIdentity{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if data.ID == "" || data.Email == "" {
		return domain.OAuthIdentity{}, fmt.Errorf("userinfo is missing id or email")
	}
	if !data.VerifiedEmail {
		return domain.OAuthIdentity{}, fmt.Errorf("google account email %q is not verified", data.Email)
	}

	return domain.OAuthIdentity{
		Provider: p.Name(),
		Subject:  data.ID,
		Email:    data.Email,
		Name:     data.Name,
	}, nil
}
