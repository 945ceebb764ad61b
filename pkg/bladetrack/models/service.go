package models

import (
	"time"

	"gorm.io/gorm"
)

// ServiceKind is the kind of work done on a blade outside the saw
type ServiceKind string

const (
	ServiceKindSharpening ServiceKind = "sharpening"
	ServiceKindRepair     ServiceKind = "repair"
	ServiceKindInspection ServiceKind = "inspection"
)

// BladeService is one service cycle: the blade leaves for sharpening or repair
// at SentAt and comes back at ReturnedAt. ReturnedAt is nil while it is away.
type BladeService struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	BladeID        uint           `gorm:"not null;index;index:idx_services_open_blade,unique,where:returned_at IS NULL AND deleted_at IS NULL" json:"blade_id"`
	Kind           ServiceKind    `gorm:"type:varchar(20);not null" json:"kind"`
	Vendor         string         `json:"vendor"`
	Note           string         `json:"note"`
	SentAt         time.Time      `gorm:"not null" json:"sent_at"`
	SentByID       uint           `gorm:"not null" json:"sent_by_id"`
	ReturnedAt     *time.Time     `json:"returned_at"`
	ReturnedByID   *uint          `json:"returned_by_id"`

	// Relationships
	Blade SawBlade `gorm:"foreignKey:BladeID" json:"blade,omitempty"`
}
