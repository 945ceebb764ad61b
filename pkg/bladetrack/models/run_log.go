package models

import "time"

// BladeRunLog holds production metrics recorded against one installation
type BladeRunLog struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	InstallID      uint      `gorm:"not null;index" json:"install_id"`
	CreatedByID    uint      `gorm:"not null" json:"created_by_id"`
	Hours          *float64  `json:"hours"`          // Hours sawed
	TemperatureC   *float64  `json:"temperature_c"`  // Blade temperature
	Amperage       *float64  `json:"amperage"`       // Motor load
	StockCount     *int      `json:"stock_count"`    // Logs through the saw
	SideClearance  *float64  `json:"side_clearance"` // Millimetres
	Note           string    `json:"note"`
}
