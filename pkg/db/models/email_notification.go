package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wedsite-backend/pkg/enums"
)

// EmailNotification is the outbound email log.
type EmailNotification struct {
	ID                uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	InvitationID      *uuid.UUID        `gorm:"column:invitation_id;type:uuid;index"`
	Kind              enums.EmailKind   `gorm:"column:kind;type:email_kind;not null"`
	Recipient         string            `gorm:"column:recipient;not null"`
	Subject           string            `gorm:"column:subject;not null"`
	Status            enums.EmailStatus `gorm:"column:status;type:email_status;not null"`
	ProviderMessageID *string           `gorm:"column:provider_message_id"`
	Error             *string           `gorm:"column:error;type:text"`
	CreatedAt         time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (EmailNotification) TableName() string { return "email_notifications" }

func (n *EmailNotification) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
