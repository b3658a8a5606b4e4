// Package approvals runs the proof and approval workflow between a planner and
// the couple.
package approvals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/links"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/angelmondragon/wedsite-backend/pkg/security"
	"github.com/angelmondragon/wedsite-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	maxRequestAttempts  = 3
	invalidTokenMessage = "invalid or expired approval token"
)

type workflowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error)
	FindForPlanner(ctx context.Context, id, plannerID uuid.UUID) (*models.Invitation, error)
	FindBySlugForPlanner(ctx context.Context, slug string, plannerID uuid.UUID) (*models.Invitation, error)
	FindByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkSentForApproval(ctx context.Context, inv *models.Invitation, token string, at time.Time, snapshot []byte) (bool, error)
	MarkPublished(ctx context.Context, id uuid.UUID, token string, at time.Time) (bool, error)
	MarkUpdatesAcknowledged(ctx context.Context, id uuid.UUID) error
	CreateEditRequest(ctx context.Context, req *models.InvitationEditRequest) error
	CreateRevision(ctx context.Context, rev *models.InvitationRevision) error
	LatestRevision(ctx context.Context, invitationID uuid.UUID) (*models.InvitationRevision, error)
}

// Notifier sends the workflow emails. Implementations record the attempt
// themselves; the workflow only needs to know whether it went out.
type Notifier interface {
	SendApprovalRequest(ctx context.Context, inv *models.Invitation, proofURL string) error
	SendInvitationPublished(ctx context.Context, inv *models.Invitation, publicURL string) error
	SendEditRequest(ctx context.Context, inv *models.Invitation, comments, proofURL string) error
	SendUpdatesReady(ctx context.Context, inv *models.Invitation, summary changes.Summary, link string) error
}

// Service exposes one method per workflow endpoint.
type Service interface {
	RequestApproval(ctx context.Context, plannerID, invitationID uuid.UUID) (*RequestApprovalResult, error)
	Approve(ctx context.Context, token string) (*ApproveResult, error)
	RequestEdits(ctx context.Context, input RequestEditsInput) (*RequestEditsResult, error)
	AcknowledgeUpdates(ctx context.Context, plannerID uuid.UUID, slug string) (*AcknowledgeResult, error)
	SendUpdatesReady(ctx context.Context, plannerID, invitationID uuid.UUID, summary *changes.Summary) (*UpdatesReadyResult, error)
}

// ServiceParams groups dependencies for the approvals service.
type ServiceParams struct {
	Repo     workflowRepository
	Notifier Notifier
	Links    links.Builder
	Metrics  *metrics.WorkflowMetrics
	Logger   *logger.Logger
	Now      func() time.Time
	NewToken func() (string, error)
}

type service struct {
	repo     workflowRepository
	notifier Notifier
	links    links.Builder
	metrics  *metrics.WorkflowMetrics
	logg     *logger.Logger
	now      func() time.Time
	newToken func() (string, error)
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approvals repo is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifier is required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	if params.NewToken == nil {
		params.NewToken = security.NewApprovalToken
	}
	return &service{
		repo:     params.Repo,
		notifier: params.Notifier,
		links:    params.Links,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      params.Now,
		newToken: params.NewToken,
	}, nil
}

func (s *service) RequestApproval(ctx context.Context, plannerID, invitationID uuid.UUID) (*RequestApprovalResult, error) {
	event := enums.WorkflowEventRequestApproval
	inv, err := s.loadForPlanner(ctx, plannerID, invitationID)
	if err != nil {
		return nil, s.reject(event, err)
	}
	ctx = s.logg.WithInvitationID(ctx, inv.ID.String())

	if strings.TrimSpace(inv.CoupleContactEmail) == "" {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "couple contact email is required before requesting approval"))
	}

	snapshot, err := changes.SnapshotOf(inv)
	if err != nil {
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot invitation content"))
	}
	encoded, err := snapshot.Marshal()
	if err != nil {
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode invitation snapshot"))
	}

	var token string
	for attempt := 1; ; attempt++ {
		if _, err := Next(inv.Status(), event); err != nil {
			return nil, s.reject(event, err)
		}

		token, err = s.newToken()
		if err != nil {
			return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate approval token"))
		}

		applied, err := s.repo.MarkSentForApproval(ctx, inv, token, s.now().UTC(), encoded)
		if err != nil && !db.IsUniqueViolation(err, "approval_token") {
			return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to request approval: "+err.Error()))
		}
		if err == nil && applied {
			break
		}
		if attempt >= maxRequestAttempts {
			return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeConflict, "invitation was modified concurrently, try again"))
		}
		// token collision or a concurrent writer: reload and retry
		inv, err = s.repo.FindByID(ctx, inv.ID)
		if err != nil {
			return nil, s.reject(event, wrapLookup(err, "invitation not found"))
		}
	}

	s.metrics.Inc(event.String(), metrics.OutcomeApplied)
	s.logg.Info(s.logg.WithField(ctx, "token_fingerprint", security.Fingerprint(token)), "approval.request_approval")

	result := &RequestApprovalResult{
		InvitationID:  inv.ID,
		ApprovalToken: token,
		ProofURL:      s.links.ProofURL(inv.Slug, token),
	}
	if err := s.notifier.SendApprovalRequest(ctx, inv, result.ProofURL); err != nil {
		result.Warning = s.warn(ctx, "approval requested but the review email could not be sent", err)
	}
	return result, nil
}

func (s *service) Approve(ctx context.Context, token string) (*ApproveResult, error) {
	event := enums.WorkflowEventApprove
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "approval token is required"))
	}

	inv, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Error(ctx, "approval.token_lookup_failed", err)
		}
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, invalidTokenMessage))
	}
	ctx = s.logg.WithInvitationID(ctx, inv.ID.String())

	result := &ApproveResult{
		InvitationID: inv.ID,
		Slug:         inv.Slug,
		PublicURL:    s.links.PublicURL(inv.Slug),
	}

	from := inv.Status()
	if IsDuplicate(from, event) {
		return s.duplicateApproval(ctx, result), nil
	}
	if _, err := Next(from, event); err != nil {
		return nil, s.reject(event, err)
	}

	applied, err := s.repo.MarkPublished(ctx, inv.ID, token, s.now().UTC())
	if err != nil {
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to approve invitation: "+err.Error()))
	}
	if !applied {
		current, err := s.repo.FindByID(ctx, inv.ID)
		if err != nil {
			return nil, s.reject(event, wrapLookup(err, invalidTokenMessage))
		}
		if current.Status() == enums.ApprovalStatusPublished {
			return s.duplicateApproval(ctx, result), nil
		}
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeNotFound, invalidTokenMessage))
	}

	s.metrics.Inc(event.String(), metrics.OutcomeApplied)
	s.logg.Info(ctx, "approval.approve")

	inv.IsPublished = true
	published := enums.ApprovalStatusPublished
	inv.ApprovalStatus = &published
	if err := s.notifier.SendInvitationPublished(ctx, inv, result.PublicURL); err != nil {
		result.Warning = s.warn(ctx, "invitation published but the confirmation email could not be sent", err)
	}
	return result, nil
}

func (s *service) duplicateApproval(ctx context.Context, result *ApproveResult) *ApproveResult {
	s.metrics.Inc(enums.WorkflowEventApprove.String(), metrics.OutcomeDuplicate)
	s.logg.Info(ctx, "approval.approve_duplicate")
	result.AlreadyPublished = true
	return result
}

func (s *service) RequestEdits(ctx context.Context, input RequestEditsInput) (*RequestEditsResult, error) {
	event := enums.WorkflowEventRequestEdits
	comments := strings.TrimSpace(input.Comments)
	if comments == "" {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "edit comments are required"))
	}
	if input.InvitationID == uuid.Nil {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required"))
	}

	inv, err := s.repo.FindByID(ctx, input.InvitationID)
	if err != nil {
		return nil, s.reject(event, wrapLookup(err, "invitation not found"))
	}
	ctx = s.logg.WithInvitationID(ctx, inv.ID.String())

	token := strings.TrimSpace(input.ApprovalToken)
	if token != "" && (inv.ApprovalToken == nil || !security.TokensEqual(token, *inv.ApprovalToken)) {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeNotFound, invalidTokenMessage))
	}
	if _, err := Next(inv.Status(), event); err != nil {
		return nil, s.reject(event, err)
	}

	req := &models.InvitationEditRequest{
		InvitationID: inv.ID,
		Comments:     comments,
		ViaToken:     token != "",
	}
	if err := s.repo.CreateEditRequest(ctx, req); err != nil {
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to record edit request: "+err.Error()))
	}

	s.metrics.Inc(event.String(), metrics.OutcomeApplied)
	s.logg.Info(s.logg.WithField(ctx, "edit_request_id", req.ID.String()), "approval.request_edits")

	result := &RequestEditsResult{EditRequestID: req.ID}
	proofURL := ""
	if inv.ApprovalToken != nil && *inv.ApprovalToken != "" {
		proofURL = s.links.ProofURL(inv.Slug, *inv.ApprovalToken)
	}
	if err := s.notifier.SendEditRequest(ctx, inv, comments, proofURL); err != nil {
		result.Warning = s.warn(ctx, "edit request saved but the planner could not be emailed", err)
	}
	return result, nil
}

func (s *service) AcknowledgeUpdates(ctx context.Context, plannerID uuid.UUID, slug string) (*AcknowledgeResult, error) {
	event := enums.WorkflowEventAcknowledgeUpdates
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "event slug is required"))
	}

	inv, err := s.repo.FindBySlugForPlanner(ctx, slug, plannerID)
	if err != nil {
		return nil, s.reject(event, wrapLookup(err, "invitation not found"))
	}
	if _, err := Next(inv.Status(), event); err != nil {
		return nil, s.reject(event, err)
	}
	if err := s.repo.MarkUpdatesAcknowledged(ctx, inv.ID); err != nil {
		return nil, s.reject(event, wrapLookup(err, "invitation not found"))
	}

	s.metrics.Inc(event.String(), metrics.OutcomeApplied)
	s.logg.Info(s.logg.WithInvitationID(ctx, inv.ID.String()), "approval.acknowledge_updates")
	return &AcknowledgeResult{InvitationID: inv.ID, UpdatesAcknowledgedByGuests: true}, nil
}

func (s *service) SendUpdatesReady(ctx context.Context, plannerID, invitationID uuid.UUID, summary *changes.Summary) (*UpdatesReadyResult, error) {
	event := enums.WorkflowEventUpdatesReady
	inv, err := s.loadForPlanner(ctx, plannerID, invitationID)
	if err != nil {
		return nil, s.reject(event, err)
	}
	ctx = s.logg.WithInvitationID(ctx, inv.ID.String())

	// A draft has neither a proof nor a public page to point the couple at.
	if _, err := Next(inv.Status(), event); err != nil {
		return nil, s.reject(event, err)
	}

	recipient := strings.TrimSpace(inv.CoupleContactEmail)
	if recipient == "" {
		return nil, s.reject(event, pkgerrors.New(pkgerrors.CodeValidation, "couple contact email is required before sending updates"))
	}

	current, err := changes.SnapshotOf(inv)
	if err != nil {
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "snapshot invitation content"))
	}

	var resolved changes.Summary
	if summary != nil {
		resolved = *summary
		if err := resolved.Validate(); err != nil {
			return nil, s.reject(event, err)
		}
	} else {
		resolved, err = s.computeFromLatestRevision(ctx, inv.ID, current)
		if err != nil {
			return nil, s.reject(event, err)
		}
	}

	link := s.links.PublicURL(inv.Slug)
	if inv.Status() == enums.ApprovalStatusSentForApproval && inv.ApprovalToken != nil && *inv.ApprovalToken != "" {
		link = s.links.ProofURL(inv.Slug, *inv.ApprovalToken)
	}

	if err := s.notifier.SendUpdatesReady(ctx, inv, resolved, link); err != nil {
		s.logg.Error(ctx, "approval.updates_ready_failed", err)
		return nil, s.reject(event, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to send updates email: "+err.Error()))
	}

	// The next comparison starts from what the couple was just told about.
	s.saveRevision(ctx, inv.ID, current)

	s.metrics.Inc(event.String(), metrics.OutcomeApplied)
	s.logg.Info(s.logg.WithField(ctx, "change_count", resolved.Count()), "approval.updates_ready")
	return &UpdatesReadyResult{
		InvitationID:  inv.ID,
		Recipient:     recipient,
		Link:          link,
		ChangeSummary: resolved,
	}, nil
}

func (s *service) computeFromLatestRevision(ctx context.Context, invitationID uuid.UUID, current changes.Snapshot) (changes.Summary, error) {
	rev, err := s.repo.LatestRevision(ctx, invitationID)
	if err != nil {
		return changes.Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load latest revision: "+err.Error())
	}
	if rev == nil {
		return changes.Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "change summary is required when no proof has been sent yet")
	}
	previous, err := changes.ParseSnapshot(rev.Snapshot)
	if err != nil {
		return changes.Summary{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode revision snapshot")
	}
	return changes.Compute(previous, current), nil
}

func (s *service) loadForPlanner(ctx context.Context, plannerID, invitationID uuid.UUID) (*models.Invitation, error) {
	if plannerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "planner identity is required")
	}
	if invitationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required")
	}
	inv, err := s.repo.FindForPlanner(ctx, invitationID, plannerID)
	if err != nil {
		return nil, wrapLookup(err, "invitation not found")
	}
	return inv, nil
}

// saveRevision stores a new diff baseline. The email already went out, so a
// failure here is logged and the next diff runs against the older revision.
func (s *service) saveRevision(ctx context.Context, invitationID uuid.UUID, snapshot changes.Snapshot) {
	encoded, err := snapshot.Marshal()
	if err != nil {
		s.logg.Error(ctx, "approval.revision_encode_failed", err)
		return
	}
	if err := s.repo.CreateRevision(ctx, &models.InvitationRevision{InvitationID: invitationID, Snapshot: types.RawJSON(encoded)}); err != nil {
		s.logg.Error(ctx, "approval.revision_save_failed", err)
	}
}

func (s *service) reject(event enums.WorkflowEvent, err error) error {
	s.metrics.Inc(event.String(), metrics.OutcomeRejected)
	return err
}

func (s *service) warn(ctx context.Context, message string, err error) string {
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "approval.notification_failed")
	return message + ": " + err.Error()
}

func wrapLookup(err error, notFoundMessage string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, notFoundMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load invitation: "+err.Error())
}
