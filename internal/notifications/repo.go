package notifications

import (
	"context"

	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists the outbound email log.
type Repository interface {
	Create(ctx context.Context, notification *models.EmailNotification) error
	ListForInvitation(ctx context.Context, params listParams) ([]models.EmailNotification, *pagination.Cursor, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an email log repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

type listParams struct {
	InvitationID uuid.UUID
	Limit        int
	Cursor       *pagination.Cursor
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.EmailNotification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repositoryImpl) ListForInvitation(ctx context.Context, params listParams) ([]models.EmailNotification, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.EmailNotification{}).
		Where("invitation_id = ?", params.InvitationID)
	if params.Cursor != nil {
		clause, args := params.Cursor.Where()
		query = query.Where(clause, args...)
	}

	var rows []models.EmailNotification
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	if len(rows) > normalized {
		last := rows[normalized-1]
		return rows[:normalized], &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return rows, nil, nil
}
