package enums

import "fmt"

// EmailKind maps to the email_kind enum in Postgres.
type EmailKind string

const (
	EmailKindApprovalRequest EmailKind = "approval_request"
	EmailKindPublished       EmailKind = "invitation_published"
	EmailKindEditRequest     EmailKind = "edit_request"
	EmailKindUpdatesReady    EmailKind = "updates_ready"
)

var validEmailKinds = []EmailKind{
	EmailKindApprovalRequest,
	EmailKindPublished,
	EmailKindEditRequest,
	EmailKindUpdatesReady,
}

func (k EmailKind) String() string {
	return string(k)
}

func (k EmailKind) IsValid() bool {
	for _, candidate := range validEmailKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func ParseEmailKind(value string) (EmailKind, error) {
	for _, candidate := range validEmailKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid email kind %q", value)
}

// EmailStatus maps to the email_status enum in Postgres.
type EmailStatus string

const (
	EmailStatusSent   EmailStatus = "sent"
	EmailStatusFailed EmailStatus = "failed"
)

func (s EmailStatus) String() string {
	return string(s)
}

func (s EmailStatus) IsValid() bool {
	return s == EmailStatusSent || s == EmailStatusFailed
}
