package invitations

import (
	"context"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// contentColumns are the only columns an update writes. Workflow columns
// belong to the approvals repository.
var contentColumns = func() []string {
	cols := make([]string, 0, len(changes.TextFields)+len(changes.ArrayFields)+len(changes.ToggleFields)+3)
	cols = append(cols, changes.TextFields...)
	cols = append(cols, "venue_place_id", "venue_lat", "venue_lng")
	cols = append(cols, changes.ArrayFields...)
	cols = append(cols, changes.ToggleFields...)
	return cols
}()

var updateColumns = append(append([]string{}, contentColumns...), "updated_at")

// Repository persists invitation content.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, inv *models.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
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

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Invitation, error) {
	var inv models.Invitation
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&inv).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListForPlanner returns up to limit+1 rows newest first so the caller can
// tell whether another page exists.
func (r *Repository) ListForPlanner(ctx context.Context, plannerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Invitation, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("planner_id = ?", plannerID)
	if cursor != nil {
		clause, args := cursor.Where()
		query = query.Where(clause, args...)
	}

	var rows []models.Invitation
	if err := query.Order("created_at DESC, id DESC").Limit(pagination.LimitWithBuffer(limit)).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateContent writes the editable columns, zero values included.
func (r *Repository) UpdateContent(ctx context.Context, inv *models.Invitation) error {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND planner_id = ?", inv.ID, inv.PlannerID).
		Select(updateColumns).
		Updates(inv)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
