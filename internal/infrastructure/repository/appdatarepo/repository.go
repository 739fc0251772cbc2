package appdatarepo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/slopify/slopify-api/internal/domain/appdata"
	"github.com/slopify/slopify-api/internal/infrastructure/database/entities"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Repository stores per-user per-app key/value rows.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Find(ctx context.Context, userID, appID, key string) (*domain.Entry, error) {
	var row entities.AppData
	err := r.db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "app_id": appID, "key": key}).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to fetch app data", err, "1e2f3a4b-5c6d-4e7f-8a9b-0c1d2e3f4a5b")
	}
	entry := row.EtoD()
	return &entry, nil
}

func (r *Repository) List(ctx context.Context, userID, appID string) ([]domain.Entry, error) {
	var rows []entities.AppData
	if err := r.db.WithContext(ctx).
		Where(map[string]any{"user_id": userID, "app_id": appID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list app data", err, "2f3a4b5c-6d7e-4f8a-9b0c-1d2e3f4a5b6c")
	}

	entries := make([]domain.Entry, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].EtoD())
	}
	return entries, nil
}

// Upsert writes the row in one statement; concurrent writers to the same key
// resolve as last writer wins.
func (r *Repository) Upsert(ctx context.Context, entry domain.Entry) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "app_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(entities.NewSchemaAppData(entry)).Error
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to store app data", err, "3a4b5c6d-7e8f-4a9b-8c1d-2e3f4a5b6c7d")
	}
	return nil
}
