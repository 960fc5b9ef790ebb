package models

import "time"

type Material struct {
	Id        uint      `json:"id" gorm:"primaryKey"`
	ProjectId string    `json:"project_id" gorm:"not null;index"`
	Project   Project   `json:"-" gorm:"foreignKey:ProjectId;references:Id;constraint:OnDelete:CASCADE"`
	Name      string    `json:"name" gorm:"not null"`
	Quantity  float64   `json:"quantity"`
	Unit      string    `json:"unit" gorm:"size:20"`
	UnitCost  float64   `json:"unit_cost" gorm:"type:numeric(12,2)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
