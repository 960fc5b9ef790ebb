package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// ProjectInvitation is a pending membership offer addressed to an email.
// The email may or may not belong to an account; responses never reveal which.
type ProjectInvitation struct {
	Id        string           `json:"id" gorm:"primaryKey"`
	ProjectId string           `json:"project_id" gorm:"not null;index"`
	Project   Project          `json:"-" gorm:"foreignKey:ProjectId;references:Id;constraint:OnDelete:CASCADE"`
	Email     string           `json:"email" gorm:"not null;index"`
	Role      string           `json:"role" gorm:"size:20;not null;default:member"`
	Status    InvitationStatus `json:"status" gorm:"size:20;not null;default:pending"`
	InvitedBy string           `json:"invited_by" gorm:"not null"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (invitation *ProjectInvitation) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	invitation.Id = uuid.NewString()
	return
}

func (ProjectInvitation) TableName() string { return "project_invitations" }
