package app

import (
	"context"

	"haven-planner/internal/auth"
	"haven-planner/internal/events"
	"haven-planner/internal/household"
)

// MockLogin is the result of a mock SSO login.
type MockLogin struct {
	OK    bool   `json:"ok"`
	Email string `json:"email"`
	Org   string `json:"org"`
	Token string `json:"token"`
}

// MockSSOLogin registers a mock parent for org and returns a signed token.
func (a *App) MockSSOLogin(ctx context.Context, email, orgID string) (MockLogin, error) {
	token, err := a.tokens.Issue(email, orgID)
	if err != nil {
		return MockLogin{}, err
	}
	a.household.Parents.Append(household.Parent{Email: email, Name: "Mock User", Org: orgID})
	a.record(ctx, events.KindSSOMock, map[string]any{"email": email, "org": orgID})
	return MockLogin{OK: true, Email: email, Org: orgID, Token: token}, nil
}

// GoogleEnabled reports whether the Google integration is switched on.
func (a *App) GoogleEnabled() bool {
	return a.google.Enabled()
}

// GoogleAuthURL returns the consent page URL for state.
func (a *App) GoogleAuthURL(state string) (string, error) {
	return a.google.AuthURL(state)
}

// CompleteGoogleLogin exchanges code and registers the Google user as a parent.
func (a *App) CompleteGoogleLogin(ctx context.Context, code string) (auth.GoogleUser, error) {
	user, err := a.google.Exchange(ctx, code)
	if err != nil {
		return auth.GoogleUser{}, err
	}
	a.household.Parents.Append(household.Parent{Email: user.Email, Name: user.Name})
	a.record(ctx, events.KindSSOGoogle, map[string]any{"email": user.Email})
	return user, nil
}
