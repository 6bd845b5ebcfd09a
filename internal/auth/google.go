package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"haven-planner/internal/config"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrGoogleDisabled is returned when the Google integration is switched off.
var ErrGoogleDisabled = errors.New("google integration disabled")

// GoogleUser is the subset of the OpenID userinfo response Haven keeps.
type GoogleUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Google runs the OAuth authorization code flow against Google accounts.
type Google struct {
	enabled     bool
	oauth       *oauth2.Config
	userInfoURL string
}

// NewGoogle builds the OAuth client from cfg. It stays disabled unless cfg.EnableGoogle is set.
func NewGoogle(cfg *config.Config) *Google {
	return &Google{
		enabled: cfg.EnableGoogle,
		oauth: &oauth2.Config{
			ClientID:     cfg.OIDCClientID,
			ClientSecret: cfg.OIDCClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

// Enabled reports whether the integration is switched on.
func (g *Google) Enabled() bool {
	return g.enabled
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthURL returns the consent page URL for state.
func (g *Google) AuthURL(state string) (string, error) {
	if !g.enabled {
		return "", ErrGoogleDisabled
	}
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange trades an authorization code for the user's profile.
func (g *Google) Exchange(ctx context.Context, code string) (GoogleUser, error) {
	if !g.enabled {
		return GoogleUser{}, ErrGoogleDisabled
	}
	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to create userinfo request: %w", err)
	}
	resp, err := g.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return GoogleUser{}, fmt.Errorf("userinfo error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return GoogleUser{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if user.Email == "" {
		return GoogleUser{}, errors.New("userinfo has no email")
	}
	return user, nil
}
