package security

import (
	"planhub-backend/models"

	"gorm.io/gorm"
)

// Audit writers. Each persists exactly one AuditLogEntry. They take the
// caller's *gorm.DB so that, invoked with the request transaction, the audit
// row commits or rolls back together with the membership mutation it records.
// CreatedAt comes from the store (autoCreateTime), not the caller's clock.

func LogInvitation(db *gorm.DB, projectID, performedBy, targetEmail, role, ipAddress, userAgent string) error {
	entry := models.AuditLogEntry{
		ProjectId:       projectID,
		PerformedBy:     performedBy,
		TargetUserEmail: targetEmail,
		Action:          models.AuditActionInvite,
		Metadata:        models.InviteMetadata{Role: role, IPAddress: ipAddress, UserAgent: userAgent}.JSON(),
	}
	return db.Create(&entry).Error
}

func LogRoleChange(db *gorm.DB, projectID, performedBy, targetEmail, oldRole, newRole, ipAddress, userAgent string) error {
	entry := models.AuditLogEntry{
		ProjectId:       projectID,
		PerformedBy:     performedBy,
		TargetUserEmail: targetEmail,
		Action:          models.AuditActionRoleChange,
		Metadata:        models.RoleChangeMetadata{OldRole: oldRole, NewRole: newRole, IPAddress: ipAddress, UserAgent: userAgent}.JSON(),
	}
	return db.Create(&entry).Error
}

func LogRemoval(db *gorm.DB, projectID, performedBy, targetEmail, ipAddress, userAgent string) error {
	return logMemberAction(db, projectID, performedBy, targetEmail, models.AuditActionRemove, ipAddress, userAgent)
}

func LogAcceptance(db *gorm.DB, projectID, performedBy, targetEmail, ipAddress, userAgent string) error {
	return logMemberAction(db, projectID, performedBy, targetEmail, models.AuditActionAccept, ipAddress, userAgent)
}

func LogDecline(db *gorm.DB, projectID, performedBy, targetEmail, ipAddress, userAgent string) error {
	return logMemberAction(db, projectID, performedBy, targetEmail, models.AuditActionDecline, ipAddress, userAgent)
}

func logMemberAction(db *gorm.DB, projectID, performedBy, targetEmail, action, ipAddress, userAgent string) error {
	entry := models.AuditLogEntry{
		ProjectId:       projectID,
		PerformedBy:     performedBy,
		TargetUserEmail: targetEmail,
		Action:          action,
		Metadata:        models.MemberActionMetadata{IPAddress: ipAddress, UserAgent: userAgent}.JSON(),
	}
	return db.Create(&entry).Error
}

// AuditFilter narrows an audit query; zero-value fields are ignored.
type AuditFilter struct {
	ProjectId       string
	PerformedBy     string
	TargetUserEmail string
}

// AuditLogs returns matching entries, most recent first (created_at DESC with
// id as tiebreaker). Plain finite query result, not a cursor.
func AuditLogs(db *gorm.DB, filter AuditFilter) ([]models.AuditLogEntry, error) {
	q := db.Model(&models.AuditLogEntry{})
	if filter.ProjectId != "" {
		q = q.Where("project_id = ?", filter.ProjectId)
	}
	if filter.PerformedBy != "" {
		q = q.Where("performed_by = ?", filter.PerformedBy)
	}
	if filter.TargetUserEmail != "" {
		q = q.Where("target_user_email = ?", filter.TargetUserEmail)
	}
	var entries []models.AuditLogEntry
	err := q.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}
