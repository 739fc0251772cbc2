package userrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slopify/slopify-api/internal/domain/user"
	"github.com/slopify/slopify-api/internal/infrastructure/database/entities"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Repository persists users with GORM.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

// NewRepository builds a user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts the user or refreshes username, avatar and token on id conflict.
// created_at, display_name and is_public are never touched by the update branch.
func (r *Repository) Upsert(ctx context.Context, u *domain.User) (*domain.User, error) {
	entity := entities.NewSchemaUser(u)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "avatar_url", "access_token"}),
		}).
		Create(entity).Error
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to upsert user", err, "a4f0d1e2-7c3b-4d5a-9e6f-0b1c2d3e4f50")
	}
	return r.FindByID(ctx, u.ID)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*domain.User, error) {
	var entity entities.User
	if err := r.db.WithContext(ctx).Where(query, arg).Limit(1).Take(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch user", err, "5b6c7d8e-9f0a-4b1c-8d2e-3f4a5b6c7d8e")
	}
	return entity.EtoD(), nil
}

// ListPublic returns users who opted in, ordered by username.
func (r *Repository) ListPublic(ctx context.Context) ([]*domain.User, error) {
	var rows []entities.User
	if err := r.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("username ASC").
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list users", err, "6c7d8e9f-0a1b-4c2d-9e3f-4a5b6c7d8e9f")
	}

	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].EtoD())
	}
	return users, nil
}

// UpdateProfile writes only the supplied fields. An unknown id is a no-op.
func (r *Repository) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) error {
	updates := map[string]any{}
	if update.SetDisplayName {
		if update.DisplayName == nil {
			updates["display_name"] = nil
		} else {
			updates["display_name"] = *update.DisplayName
		}
	}
	if update.IsPublic != nil {
		updates["is_public"] = *update.IsPublic
	}
	if len(updates) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to update profile", err, "7d8e9f0a-1b2c-4d3e-8f4a-5b6c7d8e9f0a")
	}
	return nil
}
