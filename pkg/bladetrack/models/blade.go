package models

import (
	"time"

	"gorm.io/gorm"
)

// BladeSide is the mounting side of a blade on a twin saw
type BladeSide string

const (
	BladeSideNone  BladeSide = ""
	BladeSideLeft  BladeSide = "Venstre"
	BladeSideRight BladeSide = "Høyre"
)

// Valid reports whether s is one of the known sides.
func (s BladeSide) Valid() bool {
	switch s {
	case BladeSideNone, BladeSideLeft, BladeSideRight:
		return true
	}
	return false
}

// BladeType is an organization's catalogue entry for a kind of blade
type BladeType struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index" json:"organization_id"`
	Name           string         `gorm:"not null" json:"name"`
	Description    string         `json:"description"`
	DiameterMM     *int           `json:"diameter_mm,omitempty"`
	TeethCount     *int           `json:"teeth_count,omitempty"`
}

// SawBlade is a physical circular-saw blade identified by its IDNummer serial.
// The serial is unique per organization among blades that are not deleted.
type SawBlade struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;index;index:idx_blades_org_serial,unique,where:deleted_at IS NULL" json:"organization_id"`
	IDNummer       string         `gorm:"column:id_nummer;not null;index:idx_blades_org_serial,unique,where:deleted_at IS NULL" json:"id_nummer"`
	BladeTypeID    *uint          `gorm:"index" json:"blade_type_id"`
	Side           BladeSide      `gorm:"type:varchar(20)" json:"side"`
	Manufacturer   string         `json:"manufacturer"`
	Note           string         `json:"note"`

	// Relationships
	BladeType *BladeType     `gorm:"foreignKey:BladeTypeID" json:"blade_type,omitempty"`
	Installs  []BladeInstall `gorm:"foreignKey:BladeID" json:"installs,omitempty"`
}
