package approvals

import (
	"github.com/angelmondragon/wedsite-backend/internal/changes"
	"github.com/google/uuid"
)

type RequestApprovalResult struct {
	InvitationID  uuid.UUID `json:"invitationId"`
	ApprovalToken string    `json:"approvalToken"`
	ProofURL      string    `json:"proofUrl"`
	Warning       string    `json:"warning,omitempty"`
}

type ApproveResult struct {
	InvitationID     uuid.UUID `json:"invitationId"`
	Slug             string    `json:"eventSlug"`
	PublicURL        string    `json:"publicUrl"`
	AlreadyPublished bool      `json:"alreadyPublished"`
	Warning          string    `json:"warning,omitempty"`
}

type RequestEditsInput struct {
	InvitationID  uuid.UUID
	ApprovalToken string
	Comments      string
}

type RequestEditsResult struct {
	EditRequestID uuid.UUID `json:"editRequestId"`
	Warning       string    `json:"warning,omitempty"`
}

type AcknowledgeResult struct {
	InvitationID                uuid.UUID `json:"invitationId"`
	UpdatesAcknowledgedByGuests bool      `json:"updatesAcknowledgedByGuests"`
}

type UpdatesReadyResult struct {
	InvitationID  uuid.UUID       `json:"invitationId"`
	Recipient     string          `json:"recipient"`
	Link          string          `json:"link"`
	ChangeSummary changes.Summary `json:"changeSummary"`
}
