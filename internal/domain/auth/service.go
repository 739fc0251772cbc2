// Package auth orchestrates the GitHub OAuth login: redirect, code exchange,
// user persistence and session issuance.
package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// CallbackPath is where the provider sends the browser back to.
const CallbackPath = "/auth/github/callback"

var (
	// ErrAuthExchange indicates the provider rejected the code or returned no token.
	ErrAuthExchange = errors.New("failed to get access token")
	// ErrProfileFetch indicates the profile request failed.
	ErrProfileFetch = errors.New("failed to fetch user profile")
	// ErrMissingCode indicates the callback carried no code.
	ErrMissingCode = errors.New("missing code parameter")
)

// LoginResult is what the provider yields for a valid code.
type LoginResult struct {
	User        user.ProviderUser
	AccessToken string
}

// Provider is the external identity provider.
type Provider interface {
	AuthCodeURL(redirectURI, state string, scopes []string) string
	CompleteLogin(ctx context.Context, code, redirectURI string) (*LoginResult, error)
}

// SessionIssuer mints the session token stored in the browser cookie.
type SessionIssuer interface {
	Issue(userID string) (string, error)
}

// UserStore persists login results; user.Service satisfies it.
type UserStore interface {
	UpsertFromLogin(ctx context.Context, providerUser user.ProviderUser, accessToken string) (*user.User, error)
}

// LoginRedirect is the authorize URL plus the anti-replay state embedded in it.
type LoginRedirect struct {
	URL   string
	State string
}

// Session is a completed login.
type Session struct {
	User  *user.User
	Token string
}

// Options configures the login flow.
type Options struct {
	// RedirectURL overrides <origin>/auth/github/callback when set.
	RedirectURL string
	Scopes      []string
}

// Service runs the login flow.
type Service interface {
	BeginLogin(returnOrigin string) LoginRedirect
	CompleteLogin(ctx context.Context, code, returnOrigin string) (*Session, error)
}

type service struct {
	provider Provider
	users    UserStore
	sessions SessionIssuer
	opts     Options
	log      zerolog.Logger
}

// NewService wires the login orchestration.
func NewService(provider Provider, users UserStore, sessions SessionIssuer, opts Options, log zerolog.Logger) Service {
	return &service{
		provider: provider,
		users:    users,
		sessions: sessions,
		opts:     opts,
		log:      log.With().Str("component", "auth-service").Logger(),
	}
}

func (s *service) BeginLogin(returnOrigin string) LoginRedirect {
	state := uuid.NewString()
	return LoginRedirect{
		URL:   s.provider.AuthCodeURL(s.redirectURI(returnOrigin), state, s.opts.Scopes),
		State: state,
	}
}

func (s *service) CompleteLogin(ctx context.Context, code, returnOrigin string) (*Session, error) {
	if code == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"Missing code parameter", ErrMissingCode, "f3a9c2e7-1b6d-4e48-9a05-2d7c8b1f4e63")
	}

	result, err := s.provider.CompleteLogin(ctx, code, s.redirectURI(returnOrigin))
	if err != nil {
		message := "Failed to get access token"
		if errors.Is(err, ErrProfileFetch) {
			message = "Failed to fetch user profile"
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
			message, err, "e7a1c3f5-2b4d-4e6f-8a0b-1c2d3e4f5a6b")
	}

	persisted, err := s.users.UpsertFromLogin(ctx, result.User, result.AccessToken)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(persisted.ID)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to issue session", err, "0c7e4a9d-3f2b-4a16-8d5e-6b1f9c3a7e42")
	}

	return &Session{User: persisted, Token: token}, nil
}

func (s *service) redirectURI(returnOrigin string) string {
	if s.opts.RedirectURL != "" {
		return s.opts.RedirectURL
	}
	return strings.TrimSuffix(returnOrigin, "/") + CallbackPath
}
