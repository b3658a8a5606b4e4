package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wedsite-backend/pkg/types"
)

// InvitationRevision is the content snapshot captured when a proof is sent.
type InvitationRevision struct {
	ID           uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	InvitationID uuid.UUID     `gorm:"column:invitation_id;type:uuid;not null;index"`
	Snapshot     types.RawJSON `gorm:"column:snapshot;type:jsonb;not null"`
	CreatedAt    time.Time     `gorm:"column:created_at;autoCreateTime"`
}

func (InvitationRevision) TableName() string { return "invitation_revisions" }

func (r *InvitationRevision) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
