package notifications

import (
	"time"

	"github.com/angelmondragon/wedsite-backend/pkg/db/models"
	"github.com/google/uuid"
)

// EmailLogEntry is the planner-facing view of one outbound email.
type EmailLogEntry struct {
	ID                uuid.UUID `json:"id"`
	Kind              string    `json:"kind"`
	Recipient         string    `json:"recipient"`
	Subject           string    `json:"subject"`
	Status            string    `json:"status"`
	ProviderMessageID *string   `json:"providerMessageId,omitempty"`
	Error             *string   `json:"error,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toEntry(n models.EmailNotification) EmailLogEntry {
	return EmailLogEntry{
		ID:                n.ID,
		Kind:              n.Kind.String(),
		Recipient:         n.Recipient,
		Subject:           n.Subject,
		Status:            n.Status.String(),
		ProviderMessageID: n.ProviderMessageID,
		Error:             n.Error,
		CreatedAt:         n.CreatedAt,
	}
}
