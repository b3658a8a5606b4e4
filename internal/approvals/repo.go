package approvals

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository owns every write to the workflow columns of invitations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) FindForPlanner(ctx context.Context, id, plannerID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND planner_id = ?", id, plannerID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) FindBySlugForPlanner(ctx context.Context, slug string, plannerID uuid.UUID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND planner_id = ?", slug, plannerID).
		First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Invitation, error) {
	if token == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var inv models.Invitation
	if err := r.db.WithContext(ctx).Where("approval_token = ?", token).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// MarkSentForApproval stores a fresh token and moves the invitation to
// sent_for_approval, provided its status still matches what the caller loaded.
// The revision snapshot is written in the same transaction. It reports false
// when another writer changed the row first.
func (r *Repository) MarkSentForApproval(ctx context.Context, inv *models.Invitation, token string, at time.Time, snapshot []byte) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.Invitation{}).Where("id = ?", inv.ID)
		if inv.ApprovalStatus == nil {
			query = query.Where("approval_status IS NULL")
		} else {
			query = query.Where("approval_status = ?", string(*inv.ApprovalStatus))
		}

		res := query.Updates(map[string]any{
			"approval_token":        token,
			"approval_status":       string(enums.ApprovalStatusSentForApproval),
			"approval_requested_at": at,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true

		return tx.Create(&models.InvitationRevision{
			InvitationID: inv.ID,
			Snapshot:     types.RawJSON(snapshot),
		}).Error
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// MarkPublished is the single writer of is_published. It only matches rows
// still awaiting approval under the given token, so duplicate approvals
// collapse to a no-op.
func (r *Repository) MarkPublished(ctx context.Context, id uuid.UUID, token string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND approval_token = ? AND approval_status = ?", id, token, string(enums.ApprovalStatusSentForApproval)).
		Updates(map[string]any{
			"approval_status":      string(enums.ApprovalStatusPublished),
			"is_published":         true,
			"approval_approved_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) MarkUpdatesAcknowledged(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ?", id).
		Update("updates_acknowledged_by_guests", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) CreateEditRequest(ctx context.Context, req *models.InvitationEditRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) CreateRevision(ctx context.Context, rev *models.InvitationRevision) error {
	return r.db.WithContext(ctx).Create(rev).Error
}

// LatestRevision returns nil without error when no proof was ever sent.
func (r *Repository) LatestRevision(ctx context.Context, invitationID uuid.UUID) (*models.InvitationRevision, error) {
	var rev models.InvitationRevision
	err := r.db.WithContext(ctx).
		Where("invitation_id = ?", invitationID).
		Order("created_at DESC").
		First(&rev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rev, nil
}
