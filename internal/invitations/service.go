// Package invitations manages the content of wedding invitation microsites.
package invitations

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/links"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
	"github.com/angelmondragon/wedsite-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	maxSlugAttempts = 5
	DefaultQRSize   = 512
	minQRSize       = 128
	maxQRSize       = 2048
)

type invitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	FindForPlanner(ctx context.Context, id, plannerID uuid.UUID) (*models.Invitation, error)
	FindBySlug(ctx context.Context, slug string) (*models.Invitation, error)
	ListForPlanner(ctx context.Context, plannerID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Invitation, error)
	UpdateContent(ctx context.Context, inv *models.Invitation) error
}

// Service exposes invitation content operations.
type Service interface {
	Create(ctx context.Context, planner Planner, input CreateInput) (*InvitationDTO, error)
	Get(ctx context.Context, plannerID, id uuid.UUID) (*InvitationDTO, error)
	List(ctx context.Context, plannerID uuid.UUID, params pagination.Params) (*pagination.Page[InvitationDTO], error)
	Update(ctx context.Context, plannerID, id uuid.UUID, content Content) (*UpdateResult, error)
	QRCode(ctx context.Context, plannerID, id uuid.UUID, size int) ([]byte, error)
	GetPublic(ctx context.Context, slug, proof string) (*PublicInvitationDTO, error)
	// Authorize confirms the invitation belongs to the planner.
	Authorize(ctx context.Context, plannerID, id uuid.UUID) error
}

type service struct {
	repo  invitationRepository
	links links.Builder
	logg  *logger.Logger
}

func NewService(repo invitationRepository, linkBuilder links.Builder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation repo is required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, links: linkBuilder, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, planner Planner, input CreateInput) (*InvitationDTO, error) {
	if planner.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "planner identity is required")
	}

	requested := strings.TrimSpace(input.Slug)
	if requested != "" && !IsValidSlug(requested) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"slug": "must be lowercase letters, digits and single hyphens"})
	}

	slug := requested
	if slug == "" {
		slug = coupleSlug(input.PartnerOneName, input.PartnerTwoName)
	}

	for attempt := 1; ; attempt++ {
		inv := &models.Invitation{
			Slug:         slug,
			PlannerID:    planner.ID,
			PlannerEmail: strings.TrimSpace(planner.Email),
		}
		input.Content.apply(inv)

		err := s.repo.Create(ctx, inv)
		if err == nil {
			s.logg.Info(s.logg.WithInvitationID(ctx, inv.ID.String()), "invitation.created")
			dto := s.toDTO(inv)
			return &dto, nil
		}
		if !db.IsUniqueViolation(err, "slug") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create invitation: "+err.Error())
		}
		if requested != "" {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug is already taken").
				WithDetails(map[string]string{"slug": requested})
		}
		if attempt >= maxSlugAttempts {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "could not allocate a unique slug")
		}
		slug = withSuffix(coupleSlug(input.PartnerOneName, input.PartnerTwoName))
	}
}

func (s *service) Get(ctx context.Context, plannerID, id uuid.UUID) (*InvitationDTO, error) {
	inv, err := s.load(ctx, plannerID, id)
	if err != nil {
		return nil, err
	}
	dto := s.toDTO(inv)
	return &dto, nil
}

func (s *service) Authorize(ctx context.Context, plannerID, id uuid.UUID) error {
	_, err := s.load(ctx, plannerID, id)
	return err
}

func (s *service) List(ctx context.Context, plannerID uuid.UUID, params pagination.Params) (*pagination.Page[InvitationDTO], error) {
	if plannerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "planner identity is required")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListForPlanner(ctx, plannerID, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list invitations: "+err.Error())
	}

	page := pagination.Trim(rows, params.Limit, func(inv models.Invitation) pagination.Cursor {
		return pagination.Cursor{CreatedAt: inv.CreatedAt, ID: inv.ID}
	})
	out := &pagination.Page[InvitationDTO]{
		Items:      make([]InvitationDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for i := range page.Items {
		out.Items = append(out.Items, s.toDTO(&page.Items[i]))
	}
	return out, nil
}

// Update replaces the editable content and reports what changed.
func (s *service) Update(ctx context.Context, plannerID, id uuid.UUID, content Content) (*UpdateResult, error) {
	inv, err := s.load(ctx, plannerID, id)
	if err != nil {
		return nil, err
	}

	before, err := changes.SnapshotOf(inv)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot invitation content")
	}

	content.apply(inv)
	if err := s.repo.UpdateContent(ctx, inv); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update invitation: "+err.Error())
	}

	updated, err := s.load(ctx, plannerID, id)
	if err != nil {
		return nil, err
	}
	after, err := changes.SnapshotOf(updated)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot invitation content")
	}
	summary := changes.Compute(before, after)

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"invitation_id": id.String(),
		"change_count":  summary.Count(),
	}), "invitation.updated")

	return &UpdateResult{Invitation: s.toDTO(updated), ChangeSummary: summary}, nil
}

// QRCode renders a PNG that links to the public microsite.
func (s *service) QRCode(ctx context.Context, plannerID, id uuid.UUID, size int) ([]byte, error) {
	inv, err := s.load(ctx, plannerID, id)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		size = DefaultQRSize
	}
	if size < minQRSize || size > maxQRSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"size": "must be between 128 and 2048"})
	}
	png, err := qrcode.Encode(s.links.PublicURL(inv.Slug), qrcode.Medium, size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render qr code")
	}
	return png, nil
}

// GetPublic returns the guest view. Unpublished invitations are only visible
// with the matching proof token; otherwise they do not exist.
func (s *service) GetPublic(ctx context.Context, slug, proof string) (*PublicInvitationDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	inv, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load invitation: "+err.Error())
	}

	proof = strings.TrimSpace(proof)
	preview := proof != "" && inv.ApprovalToken != nil && security.TokensEqual(proof, *inv.ApprovalToken)
	if !inv.IsPublished && !preview {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invitation not found")
	}

	content := contentOf(inv)
	content.CoupleContactEmail = ""
	dto := &PublicInvitationDTO{
		Slug:        inv.Slug,
		IsPublished: inv.IsPublished,
		Preview:     preview,
		Content:     content,
	}
	if preview {
		id := inv.ID
		dto.InvitationID = &id
	}
	return dto, nil
}

func (s *service) load(ctx context.Context, plannerID, id uuid.UUID) (*models.Invitation, error) {
	if plannerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "planner identity is required")
	}
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required")
	}
	inv, err := s.repo.FindForPlanner(ctx, id, plannerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "invitation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load invitation: "+err.Error())
	}
	return inv, nil
}

func (s *service) toDTO(inv *models.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:                          inv.ID,
		Slug:                        inv.Slug,
		PlannerID:                   inv.PlannerID,
		PlannerEmail:                inv.PlannerEmail,
		ApprovalStatus:              inv.Status().String(),
		ApprovalRequestedAt:         inv.ApprovalRequestedAt,
		ApprovalApprovedAt:          inv.ApprovalApprovedAt,
		IsPublished:                 inv.IsPublished,
		UpdatesAcknowledgedByGuests: inv.UpdatesAcknowledgedByGuests,
		PublicURL:                   s.links.PublicURL(inv.Slug),
		CreatedAt:                   inv.CreatedAt,
		UpdatedAt:                   inv.UpdatedAt,
		Content:                     contentOf(inv),
	}
}
