package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// SystemRole represents a user's system-wide role
type SystemRole string

const (
	SystemRoleAdmin SystemRole = "admin"
	SystemRoleUser  SystemRole = "user"
)

// Is reports whether the role matches other, ignoring case.
func (r SystemRole) Is(other SystemRole) bool {
	return strings.EqualFold(string(r), string(other))
}

// User represents an operator account
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	ExternalID   string         `gorm:"index" json:"external_id,omitempty"` // Identity provider subject
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `json:"-"` // Empty for users that only sign in through the identity provider
	Name         string         `gorm:"not null" json:"name"`
	Active       bool           `gorm:"default:true" json:"active"`
	SystemRole   SystemRole     `gorm:"type:varchar(20);default:'user'" json:"system_role"`

	// Relationships
	OrganizationMemberships []OrganizationMembership `gorm:"foreignKey:UserID" json:"organization_memberships,omitempty"`
	APIKeys                 []APIKey                 `gorm:"foreignKey:UserID" json:"api_keys,omitempty"`
}
