package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
)

// Tenant is the resolved caller: who is acting, in which organization, with
// which role. Every read and write below the HTTP layer is scoped by it.
type Tenant struct {
	UserID         uint
	OrganizationID uint
	Role           models.OrgRole
}

// IsAdmin reports whether the caller administers the organization
func (t Tenant) IsAdmin() bool {
	return t.Role.Is(models.OrgRoleAdmin)
}

// GetTenant returns the caller resolved by TenancyGuard
func GetTenant(c *gin.Context) (Tenant, error) {
	userID, ok := GetUserID(c)
	if !ok {
		return Tenant{}, apierr.Unauthenticated("Authentication required")
	}
	orgID, ok := GetOrgID(c)
	if !ok {
		return Tenant{}, apierr.NoOrganization("No active organization selected")
	}
	role, _ := GetOrgRole(c)
	return Tenant{UserID: userID, OrganizationID: orgID, Role: models.OrgRole(role)}, nil
}

// GetUserID returns the user ID from the gin context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetEmail returns the email from the gin context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	return email.(string), true
}

// GetSystemRole returns the system role from the gin context
func GetSystemRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeySystemRole)
	if !exists {
		return "", false
	}
	return role.(string), true
}

// GetOrgID returns the organization ID from the gin context
func GetOrgID(c *gin.Context) (uint, bool) {
	orgID, exists := c.Get(ContextKeyOrgID)
	if !exists {
		return 0, false
	}
	return orgID.(uint), true
}

// GetOrgRole returns the organization role from the gin context
func GetOrgRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeyOrgRole)
	if !exists {
		return "", false
	}
	return role.(string), true
}
