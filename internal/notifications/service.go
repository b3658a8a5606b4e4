// Package notifications renders and sends the workflow emails and keeps the
// outbound email log.
package notifications

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/angelmondragon/wedsite-backend/pkg/email"
	"github.com/angelmondragon/wedsite-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wedsite-backend/pkg/errors"
	"github.com/angelmondragon/wedsite-backend/pkg/logger"
	"github.com/angelmondragon/wedsite-backend/pkg/metrics"
	"github.com/angelmondragon/wedsite-backend/pkg/pagination"
	"github.com/google/uuid"
)

var errNoRecipient = errors.New("no recipient email address on file")

// ServiceParams groups dependencies for the notifications service.
type ServiceParams struct {
	Repo                Repository
	Sender              email.Sender
	Metrics             *metrics.EmailMetrics
	Logger              *logger.Logger
	DefaultPlannerEmail string
}

// Service sends one email per workflow transition and lists what was sent.
type Service struct {
	repo                Repository
	sender              email.Sender
	metrics             *metrics.EmailMetrics
	logg                *logger.Logger
	defaultPlannerEmail string
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "notifications repository required")
	}
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email sender required")
	}
	if params.Logger == nil {
		params.Logger = logger.Nop()
	}
	return &Service{
		repo:                params.Repo,
		sender:              params.Sender,
		metrics:             params.Metrics,
		logg:                params.Logger,
		defaultPlannerEmail: strings.TrimSpace(params.DefaultPlannerEmail),
	}, nil
}

func (s *Service) SendApprovalRequest(ctx context.Context, inv *models.Invitation, proofURL string) error {
	data := baseData(inv)
	data.Link = proofURL
	return s.deliver(ctx, inv, enums.EmailKindApprovalRequest, inv.CoupleContactEmail, coupleNames(inv), data)
}

func (s *Service) SendInvitationPublished(ctx context.Context, inv *models.Invitation, publicURL string) error {
	data := baseData(inv)
	data.Link = publicURL
	return s.deliver(ctx, inv, enums.EmailKindPublished, inv.CoupleContactEmail, coupleNames(inv), data)
}

// SendEditRequest forwards the couple's comments to the planner, falling back
// to the configured default address when the invitation has none.
func (s *Service) SendEditRequest(ctx context.Context, inv *models.Invitation, comments, proofURL string) error {
	data := baseData(inv)
	data.Link = proofURL
	data.Comments = comments
	recipient := strings.TrimSpace(inv.PlannerEmail)
	if recipient == "" {
		recipient = s.defaultPlannerEmail
	}
	return s.deliver(ctx, inv, enums.EmailKindEditRequest, recipient, "", data)
}

func (s *Service) SendUpdatesReady(ctx context.Context, inv *models.Invitation, summary changes.Summary, link string) error {
	data := baseData(inv)
	data.Link = link
	data.Summary = summary
	return s.deliver(ctx, inv, enums.EmailKindUpdatesReady, inv.CoupleContactEmail, coupleNames(inv), data)
}

func (s *Service) deliver(ctx context.Context, inv *models.Invitation, kind enums.EmailKind, recipient, recipientName string, data templateData) error {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"email_kind":    kind.String(),
		"invitation_id": inv.ID.String(),
	})

	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		s.metrics.Inc(kind.String(), enums.EmailStatusFailed.String())
		s.logg.Warn(ctx, "email.no_recipient")
		return errNoRecipient
	}

	msg, err := render(kind, data)
	if err != nil {
		s.metrics.Inc(kind.String(), enums.EmailStatusFailed.String())
		return err
	}
	msg.To = recipient
	msg.ToName = recipientName

	result, sendErr := s.sender.Send(ctx, msg)

	record := &models.EmailNotification{
		InvitationID: &inv.ID,
		Kind:         kind,
		Recipient:    recipient,
		Subject:      msg.Subject,
		Status:       enums.EmailStatusSent,
	}
	if sendErr != nil {
		record.Status = enums.EmailStatusFailed
		errText := sendErr.Error()
		record.Error = &errText
	} else if result.ProviderMessageID != "" {
		id := result.ProviderMessageID
		record.ProviderMessageID = &id
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logg.Error(ctx, "email.log_failed", err)
	}
	s.metrics.Inc(kind.String(), record.Status.String())

	if sendErr != nil {
		s.logg.Error(ctx, "email.send_failed", sendErr)
		return sendErr
	}
	s.logg.Info(s.logg.WithField(ctx, "email_message_id", result.ProviderMessageID), "email.sent")
	return nil
}

// ListParams selects one page of an invitation's email log.
type ListParams struct {
	InvitationID uuid.UUID
	Limit        int
	Cursor       string
}

func (s *Service) List(ctx context.Context, params ListParams) (*pagination.Page[EmailLogEntry], error) {
	if params.InvitationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invitation id is required")
	}
	query := listParams{InvitationID: params.InvitationID, Limit: params.Limit}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListForInvitation(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list email notifications: "+err.Error())
	}

	page := &pagination.Page[EmailLogEntry]{Items: make([]EmailLogEntry, 0, len(rows))}
	for _, row := range rows {
		page.Items = append(page.Items, toEntry(row))
	}
	if next != nil {
		page.NextCursor = pagination.EncodeCursor(*next)
	}
	return page, nil
}

func baseData(inv *models.Invitation) templateData {
	return templateData{
		CoupleNames:  coupleNames(inv),
		EventDate:    inv.EventDate,
		VenueName:    inv.VenueName,
		Slug:         inv.Slug,
		InvitationID: inv.ID.String(),
	}
}

func coupleNames(inv *models.Invitation) string {
	one := strings.TrimSpace(inv.PartnerOneName)
	two := strings.TrimSpace(inv.PartnerTwoName)
	switch {
	case one != "" && two != "":
		return one + " & " + two
	case one != "":
		return one
	case two != "":
		return two
	}
	return "there"
}
