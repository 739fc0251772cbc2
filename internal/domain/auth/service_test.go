package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

type fakeProvider struct {
	gotRedirect string
	gotScopes   []string
	result      *LoginResult
	err         error
}

func (f *fakeProvider) AuthCodeURL(redirectURI, state string, scopes []string) string {
	f.gotRedirect = redirectURI
	f.gotScopes = scopes
	return fmt.Sprintf("https://idp.test/authorize?redirect_uri=%s&state=%s&scope=%s", redirectURI, state, strings.Join(scopes, " "))
}

func (f *fakeProvider) CompleteLogin(_ context.Context, _ string, redirectURI string) (*LoginResult, error) {
	f.gotRedirect = redirectURI
	return f.result, f.err
}

type fakeUsers struct {
	got   user.ProviderUser
	token string
}

func (f *fakeUsers) UpsertFromLogin(_ context.Context, p user.ProviderUser, token string) (*user.User, error) {
	f.got = p
	f.token = token
	return &user.User{ID: fmt.Sprint(p.ID), Username: p.Login}, nil
}

type fakeSessions struct{}

func (fakeSessions) Issue(userID string) (string, error) { return "signed:" + userID, nil }

func TestBeginLogin_FreshStateAndOriginRedirect(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeUsers{}, fakeSessions{}, Options{Scopes: []string{"public_repo"}}, zerolog.Nop())

	first := svc.BeginLogin("https://slopify.test/")
	second := svc.BeginLogin("https://slopify.test")

	assert.NotEmpty(t, first.State)
	assert.NotEqual(t, first.State, second.State)
	assert.Contains(t, first.URL, first.State)
	assert.Equal(t, "https://slopify.test/auth/github/callback", provider.gotRedirect)
	assert.Equal(t, []string{"public_repo"}, provider.gotScopes)
}

func TestBeginLogin_ConfiguredRedirectWins(t *testing.T) {
	provider := &fakeProvider{}
	svc := NewService(provider, &fakeUsers{}, fakeSessions{}, Options{RedirectURL: "https://api.test/cb"}, zerolog.Nop())

	svc.BeginLogin("https://ignored.test")
	assert.Equal(t, "https://api.test/cb", provider.gotRedirect)
}

func TestCompleteLogin_PersistsAndIssuesSession(t *testing.T) {
	provider := &fakeProvider{result: &LoginResult{
		User:        user.ProviderUser{ID: 9, Login: "octo", AvatarURL: "https://a/9"},
		AccessToken: "gho_abc",
	}}
	users := &fakeUsers{}
	svc := NewService(provider, users, fakeSessions{}, Options{}, zerolog.Nop())

	session, err := svc.CompleteLogin(context.Background(), "code-1", "http://localhost:8787")
	require.NoError(t, err)

	assert.Equal(t, "signed:9", session.Token)
	assert.Equal(t, "octo", session.User.Username)
	assert.Equal(t, "gho_abc", users.token)
	assert.Equal(t, "http://localhost:8787/auth/github/callback", provider.gotRedirect)
}

func TestCompleteLogin_Errors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(&fakeProvider{}, &fakeUsers{}, fakeSessions{}, Options{}, zerolog.Nop())
	_, err := svc.CompleteLogin(ctx, "", "http://x")
	assert.ErrorIs(t, err, ErrMissingCode)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, "f3a9c2e7-1b6d-4e48-9a05-2d7c8b1f4e63", platformerrors.GetPlatformError(err).UUID)

	exchange := NewService(&fakeProvider{err: fmt.Errorf("%w: bad_verification_code", ErrAuthExchange)}, &fakeUsers{}, fakeSessions{}, Options{}, zerolog.Nop())
	_, err = exchange.CompleteLogin(ctx, "stale", "http://x")
	assert.ErrorIs(t, err, ErrAuthExchange)
	assert.Equal(t, "Failed to get access token", platformerrors.GetPlatformError(err).Message)

	profile := NewService(&fakeProvider{err: errors.Join(ErrProfileFetch, errors.New("503"))}, &fakeUsers{}, fakeSessions{}, Options{}, zerolog.Nop())
	_, err = profile.CompleteLogin(ctx, "ok", "http://x")
	assert.ErrorIs(t, err, ErrProfileFetch)
	assert.Equal(t, "Failed to fetch user profile", platformerrors.GetPlatformError(err).Message)
}
