package messagerepo

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/slopify/slopify-api/internal/domain/message"
	"github.com/slopify/slopify-api/internal/infrastructure/database/entities"
	"github.com/slopify/slopify-api/internal/utils/platformerrors"
)

// Repository is the append-only message log.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends msg and sets its ID.
func (r *Repository) Create(ctx context.Context, msg *domain.Message) error {
	entity := entities.NewSchemaMessage(msg)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to store message", err, "4b5c6d7e-8f9a-4b0c-9d2e-3f4a5b6c7d8e")
	}
	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) ListConversation(ctx context.Context, q domain.ConversationQuery) ([]*domain.Message, error) {
	limit := q.Limit
	if limit <= 0 || limit > domain.ConversationLimit {
		limit = domain.ConversationLimit
	}

	query := r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.from_user_id, m.to_user_id, m.content, m.created_at, " +
			"fu.username AS from_username, fu.avatar_url AS from_avatar_url, tu.username AS to_username").
		Joins("JOIN users fu ON fu.id = m.from_user_id").
		Joins("JOIN users tu ON tu.id = m.to_user_id").
		Where("((m.from_user_id = ? AND m.to_user_id = ?) OR (m.from_user_id = ? AND m.to_user_id = ?))",
			q.UserID, q.OtherID, q.OtherID, q.UserID)
	if q.Since != nil {
		query = query.Where("m.created_at > ?", *q.Since)
	}

	var rows []entities.ConversationRow
	if err := query.
		Order("m.created_at ASC").
		Order("m.id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to list conversation", err, "5c6d7e8f-9a0b-4c1d-8e3f-4a5b6c7d8e9f")
	}

	messages := make([]*domain.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].EtoD())
	}
	return messages, nil
}
