package models

import "time"

type Task struct {
	Id          uint       `json:"id" gorm:"primaryKey"`
	ProjectId   string     `json:"project_id" gorm:"not null;index"`
	Project     Project    `json:"-" gorm:"foreignKey:ProjectId;references:Id;constraint:OnDelete:CASCADE"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      string     `json:"status" gorm:"size:20;default:open"` // open | in_progress | done
	AssigneeId  *string    `json:"assignee_id" gorm:"index"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
