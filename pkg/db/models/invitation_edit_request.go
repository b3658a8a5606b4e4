package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InvitationEditRequest records comments a couple sent back on a proof.
type InvitationEditRequest struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	InvitationID uuid.UUID `gorm:"column:invitation_id;type:uuid;not null;index"`
	Comments     string    `gorm:"column:comments;type:text;not null"`
	ViaToken     bool      `gorm:"column:via_token;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (InvitationEditRequest) TableName() string { return "invitation_edit_requests" }

func (r *InvitationEditRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
