package enums

import "fmt"

// ApprovalStatus maps to the approval_status enum in Postgres. A NULL column
// is read as ApprovalStatusDraft.
type ApprovalStatus string

const (
	ApprovalStatusDraft           ApprovalStatus = "draft"
	ApprovalStatusSentForApproval ApprovalStatus = "sent_for_approval"
	ApprovalStatusPublished       ApprovalStatus = "published"
)

var validApprovalStatuses = []ApprovalStatus{
	ApprovalStatusDraft,
	ApprovalStatusSentForApproval,
	ApprovalStatusPublished,
}

// String implements fmt.Stringer.
func (s ApprovalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is part of the closed set.
func (s ApprovalStatus) IsValid() bool {
	for _, candidate := range validApprovalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseApprovalStatus converts raw strings into ApprovalStatus.
func ParseApprovalStatus(value string) (ApprovalStatus, error) {
	for _, candidate := range validApprovalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid approval status %q", value)
}

// NormalizeApprovalStatus folds a nullable stored value into the closed set.
// NULL and anything unrecognized are draft.
func NormalizeApprovalStatus(stored *ApprovalStatus) ApprovalStatus {
	if stored == nil || !stored.IsValid() {
		return ApprovalStatusDraft
	}
	return *stored
}
