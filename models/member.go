package models

import "time"

// Member roles, in descending order of privilege.
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ProjectMember links a user to a project with a role. At most one row per
// (project, user) pair; the owner's row is created with the project itself.
type ProjectMember struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	ProjectId string    `json:"project_id" gorm:"uniqueIndex:idx_members_project_user;not null"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectId;references:Id;constraint:OnDelete:CASCADE"`
	UserId    string    `json:"user_id" gorm:"uniqueIndex:idx_members_project_user;not null"`
	User      User      `json:"user" gorm:"foreignKey:UserId;references:Id"`
	Role      string    `json:"role" gorm:"size:20;not null;default:member"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProjectMember) TableName() string { return "project_members" }
