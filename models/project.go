package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	Id          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	OwnerId     string `json:"owner_id" gorm:"not null;index"`
	Owner       User   `json:"-" gorm:"foreignKey:OwnerId;references:Id"`

	// Category/theme presets chosen in the UI (color, icon, preset name).
	CategoryId *uint          `json:"category_id"`
	Theme      datatypes.JSON `json:"theme" gorm:"type:jsonb"`

	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (project *Project) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	project.Id = uuid.NewString()
	return
}

// Category is a reusable theming preset projects can point at.
type Category struct {
	Id    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"not null;unique"`
	Color string `json:"color" gorm:"size:7"` // hex, e.g. #1f6feb
	Icon  string `json:"icon" gorm:"size:64"`
}
