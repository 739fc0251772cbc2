package appdata

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Service is the key/value surface used by mini apps. Every call is scoped to userID.
type Service interface {
	Get(ctx context.Context, userID, appID, key string) (*Value, error)
	GetAll(ctx context.Context, userID, appID string) (map[string]Value, error)
	Set(ctx context.Context, userID, appID, key string, value json.RawMessage) error
}

type service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

// NewService wires the app data service with its repository.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("component", "appdata-service").Logger(),
		now:  time.Now,
	}
}

// Get returns nil when the key has never been written.
func (s *service) Get(ctx context.Context, userID, appID, key string) (*Value, error) {
	if userID == "" {
		return nil, unauthenticated(ctx)
	}
	entry, err := s.repo.Find(ctx, userID, appID, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	value := s.decode(entry)
	return &value, nil
}

func (s *service) GetAll(ctx context.Context, userID, appID string) (map[string]Value, error) {
	if userID == "" {
		return nil, unauthenticated(ctx)
	}
	entries, err := s.repo.List(ctx, userID, appID)
	if err != nil {
		return nil, err
	}
	data := make(map[string]Value, len(entries))
	for i := range entries {
		data[entries[i].Key] = s.decode(&entries[i])
	}
	return data, nil
}

func (s *service) Set(ctx context.Context, userID, appID, key string, value json.RawMessage) error {
	if userID == "" {
		return unauthenticated(ctx)
	}
	text, err := Encode(value)
	if err != nil {
		message := "Invalid value"
		if errors.Is(err, ErrMissingValue) {
			message = "Missing value"
		}
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			message, err, "1e9a2e51-3c55-4d8a-9f2c-5d71a3b0e7c4")
	}

	return s.repo.Upsert(ctx, Entry{
		UserID:    userID,
		AppID:     appID,
		Key:       key,
		Value:     text,
		UpdatedAt: s.now().Unix(),
	})
}

func (s *service) decode(entry *Entry) Value {
	value := DecodeStored(entry.Value)
	if value.Kind == ValueRaw {
		s.log.Debug().
			Str("app_id", entry.AppID).
			Str("key", entry.Key).
			Msg("stored value is not JSON, returning raw text")
	}
	return value
}

func unauthenticated(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"Not authenticated", ErrUnauthenticated, "4a1f2c7d-8e0b-4b5e-a3d9-2c6e8f1b0a93")
}
