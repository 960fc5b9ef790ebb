package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Membership lifecycle actions recorded in the audit trail.
const (
	AuditActionInvite     = "invite"
	AuditActionRoleChange = "role_change"
	AuditActionRemove     = "remove"
	AuditActionAccept     = "accept"
	AuditActionDecline    = "decline"
)

// AuditLogEntry is append-only: rows are written inside the same transaction
// as the membership mutation they describe and are never updated or deleted
// by application code. CreatedAt is assigned by the store, not the caller.
type AuditLogEntry struct {
	Id              uint           `json:"id" gorm:"primaryKey"`
	ProjectId       string         `json:"project_id" gorm:"not null;index"`
	PerformedBy     string         `json:"performed_by" gorm:"not null;index"`
	TargetUserEmail string         `json:"target_user_email" gorm:"not null;index"`
	Action          string         `json:"action" gorm:"size:20;not null"`
	Metadata        datatypes.JSON `json:"metadata" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime;index"`
}

func (AuditLogEntry) TableName() string { return "audit_log_entries" }

// Metadata payloads, one shape per action. Invite carries the granted role,
// role changes carry both sides of the transition; the rest carry only the
// request fingerprint.

type InviteMetadata struct {
	Role      string `json:"role"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

type RoleChangeMetadata struct {
	OldRole   string `json:"old_role"`
	NewRole   string `json:"new_role"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

type MemberActionMetadata struct {
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

func mustJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func (m InviteMetadata) JSON() datatypes.JSON       { return mustJSON(m) }
func (m RoleChangeMetadata) JSON() datatypes.JSON   { return mustJSON(m) }
func (m MemberActionMetadata) JSON() datatypes.JSON { return mustJSON(m) }
