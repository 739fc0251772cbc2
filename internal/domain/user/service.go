package user

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Service describes the user directory surface.
type Service interface {
	UpsertFromLogin(ctx context.Context, providerUser ProviderUser, accessToken string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListPublic(ctx context.Context) ([]*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error
}

type service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService wires the user service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "user-service").Logger(),
		now:  time.Now,
	}
}

// UpsertFromLogin creates the user on first login and refreshes username, avatar
// and token afterwards. CreatedAt is only written by the insert branch.
func (s *service) UpsertFromLogin(ctx context.Context, providerUser ProviderUser, accessToken string) (*User, error) {
	if providerUser.ID == 0 || providerUser.Login == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			ErrInvalidIdentity.Error(), ErrInvalidIdentity, "6b0d7f5e-1b7a-4c7e-9a55-3f0b6f6f4a10")
	}

	record := &User{
		ID:        strconv.FormatInt(providerUser.ID, 10),
		Username:  providerUser.Login,
		CreatedAt: s.now().Unix(),
	}
	if providerUser.AvatarURL != "" {
		avatar := providerUser.AvatarURL
		record.AvatarURL = &avatar
	}
	if accessToken != "" {
		token := accessToken
		record.AccessToken = &token
	}

	persisted, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", persisted.ID).Str("username", persisted.Username).Msg("user logged in")
	return persisted, nil
}

// GetByID returns nil when the user does not exist.
func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, nil
	}
	return s.repo.FindByID(ctx, id)
}

// GetByUsername returns nil when the user does not exist.
func (s *service) GetByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, nil
	}
	return s.repo.FindByUsername(ctx, username)
}

func (s *service) ListPublic(ctx context.Context) ([]*User, error) {
	return s.repo.ListPublic(ctx)
}

// UpdateProfile applies a partial update to the caller's own record.
func (s *service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) error {
	if id == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
			"Not authenticated", ErrUnauthenticated, "0f5c3a8e-6d0e-4f9b-8f64-8f3d3b0c2e01")
	}
	if update.Empty() {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"No fields to update", ErrNoFields, "c3c1f0a4-92a3-4a19-8a0c-6a2c7f9e5d22")
	}
	return s.repo.UpdateProfile(ctx, id, update)
}
