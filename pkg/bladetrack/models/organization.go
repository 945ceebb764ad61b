package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// OrgRole represents a user's role within an organization
type OrgRole string

const (
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
)

// Is reports whether the role matches other, ignoring case.
func (r OrgRole) Is(other OrgRole) bool {
	return strings.EqualFold(string(r), string(other))
}

// Organization represents a tenant. Every saw, blade, installation and run log
// belongs to exactly one organization. Organizations are provisioned from the
// identity provider side and never created through the HTTP API.
type Organization struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	ExternalID string         `gorm:"index" json:"external_id,omitempty"` // Identity provider organization id
	Name       string         `gorm:"not null" json:"name"`
	Slug       string         `gorm:"uniqueIndex;not null" json:"slug"`

	// Relationships
	Members []OrganizationMembership `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
}

// OrganizationMembership represents the many-to-many relationship between users and organizations.
// Users can belong to multiple organizations with different roles in each.
type OrganizationMembership struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	OrganizationID uint           `gorm:"not null;uniqueIndex:idx_org_user" json:"organization_id"`
	UserID         uint           `gorm:"not null;uniqueIndex:idx_org_user" json:"user_id"`
	Role           OrgRole        `gorm:"type:varchar(20);default:'member'" json:"role"`

	// Relationships
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
