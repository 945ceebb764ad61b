package models

import "time"

// BladeInstall is one continuous interval during which a blade was mounted on
// a saw. RemovedAt is nil while the blade is still mounted; such a row is the
// current installation for both its saw and its blade. The partial unique
// indexes below keep at most one current row per saw and per blade.
type BladeInstall struct {
	ID             uint       `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	OrganizationID uint       `gorm:"not null;index" json:"organization_id"`
	SawID          uint       `gorm:"not null;index;index:idx_installs_current_saw,unique,where:removed_at IS NULL" json:"saw_id"`
	BladeID        uint       `gorm:"not null;index;index:idx_installs_current_blade,unique,where:removed_at IS NULL" json:"blade_id"`
	Side           BladeSide  `gorm:"type:varchar(20)" json:"side"`
	Note           string     `json:"note"`
	InstalledAt    time.Time  `gorm:"not null;index" json:"installed_at"`
	InstalledByID  uint       `gorm:"not null" json:"installed_by_id"`
	RemovedAt      *time.Time `gorm:"index" json:"removed_at"`
	RemovedByID    *uint      `json:"removed_by_id"`
	RemovedReason  string     `json:"removed_reason"`
	RemovedNote    string     `json:"removed_note"`

	// Relationships
	Saw     Saw           `gorm:"foreignKey:SawID" json:"saw,omitempty"`
	Blade   SawBlade      `gorm:"foreignKey:BladeID" json:"blade,omitempty"`
	RunLogs []BladeRunLog `gorm:"foreignKey:InstallID;constraint:OnDelete:CASCADE" json:"run_logs,omitempty"`
}

// Current reports whether the installation is still open.
func (i *BladeInstall) Current() bool {
	return i.RemovedAt == nil
}
