package models

import "time"

// RateLimitRecord is one fixed-window counter, keyed by who is calling which
// membership endpoint on which project. At most one live row per key; the
// composite unique index is created in database.Migrate.
type RateLimitRecord struct {
	Id           uint      `json:"id" gorm:"primaryKey"`
	UserId       string    `json:"user_id" gorm:"uniqueIndex:idx_rate_limits_key;size:128;not null"`
	Endpoint     string    `json:"endpoint" gorm:"uniqueIndex:idx_rate_limits_key;size:128;not null"`
	ProjectId    string    `json:"project_id" gorm:"uniqueIndex:idx_rate_limits_key;size:128;not null"`
	RequestCount int       `json:"request_count" gorm:"not null;default:1"`
	WindowStart  time.Time `json:"window_start" gorm:"not null;index"`
}

func (RateLimitRecord) TableName() string { return "rate_limit_records" }
