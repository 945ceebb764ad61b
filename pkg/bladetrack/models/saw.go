package models

import (
	"time"

	"gorm.io/gorm"
)

// Saw is a physical saw machine. It holds at most one current installation.
type Saw struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"not null" json:"name"`
	Type           string         `json:"type"`
	Active         bool           `gorm:"default:true" json:"active"`

	// Relationships
	Installs []BladeInstall `gorm:"foreignKey:SawID" json:"installs,omitempty"`
}
