package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyEmail is the key for email in gin context
	ContextKeyEmail = "email"
	// ContextKeySystemRole is the key for system role in gin context
	ContextKeySystemRole = "system_role"
	// ContextKeyClaimOrgID is the organization selected in the session token
	ContextKeyClaimOrgID = "claim_organization_id"
	// ContextKeyKeyOrgID is the organization an API key is bound to
	ContextKeyKeyOrgID = "api_key_organization_id"
	// ContextKeyOrgID is the key for the resolved organization ID in gin context
	ContextKeyOrgID = "organization_id"
	// ContextKeyOrgRole is the key for organization role in gin context
	ContextKeyOrgRole = "organization_role"

	// HeaderOrganizationID lets a client pick one of its organizations per request
	HeaderOrganizationID = "X-Organization-ID"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apierr.Unauthenticated("Authorization header required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", apierr.Unauthenticated("Invalid authorization header format")
	}
	return parts[1], nil
}

// SetClaims stores validated token claims in the gin context
func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyEmail, claims.Email)
	c.Set(ContextKeySystemRole, claims.SystemRole)
	if claims.OrganizationID != 0 {
		c.Set(ContextKeyClaimOrgID, claims.OrganizationID)
	}
}

// AuthMiddleware validates JWT tokens and sets user info in context
func AuthMiddleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := BearerToken(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			if err == ErrExpiredToken {
				apierr.Abort(c, apierr.Unauthenticated("Token has expired"))
			} else {
				apierr.Abort(c, apierr.Unauthenticated("Invalid token"))
			}
			return
		}

		SetClaims(c, claims)
		c.Next()
	}
}

// RequireAdmin middleware checks if the user has admin system role.
// The comparison ignores case.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetSystemRole(c)
		if !exists {
			apierr.Abort(c, apierr.Unauthenticated("Authentication required"))
			return
		}

		if !models.SystemRole(role).Is(models.SystemRoleAdmin) {
			apierr.Abort(c, apierr.Forbidden("Admin access required"))
			return
		}

		c.Next()
	}
}

// TenancyGuard resolves the organization the request acts in and verifies
// the caller is a member of it. The organization comes from, in order: the
// API key, the org_id claim of the session token, the X-Organization-ID
// header. Requests without one are refused with kind no_organization.
func TenancyGuard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierr.Abort(c, apierr.Unauthenticated("Authentication required"))
			return
		}

		var orgID uint
		if keyOrg, ok := c.Get(ContextKeyKeyOrgID); ok {
			orgID = keyOrg.(uint)
		} else if claimOrg, ok := c.Get(ContextKeyClaimOrgID); ok && claimOrg.(uint) != 0 {
			orgID = claimOrg.(uint)
		} else if orgIDStr := c.GetHeader(HeaderOrganizationID); orgIDStr != "" {
			parsed, err := strconv.ParseUint(orgIDStr, 10, 32)
			if err != nil || parsed == 0 {
				apierr.Abort(c, apierr.BadRequest("Invalid organization ID"))
				return
			}
			orgID = uint(parsed)
		}

		if orgID == 0 {
			apierr.Abort(c, apierr.NoOrganization("No active organization selected"))
			return
		}

		var membership models.OrganizationMembership
		err := db.WithContext(c.Request.Context()).
			Joins("JOIN organizations ON organizations.id = organization_memberships.organization_id AND organizations.deleted_at IS NULL").
			Where("organization_memberships.user_id = ? AND organization_memberships.organization_id = ?", userID, orgID).
			First(&membership).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				apierr.Abort(c, apierr.NoOrganization("Not a member of this organization"))
			} else {
				apierr.Abort(c, apierr.Internal("Failed to resolve organization", err))
			}
			return
		}

		c.Set(ContextKeyOrgID, orgID)
		c.Set(ContextKeyOrgRole, string(membership.Role))

		ctx := zerolog.Ctx(c.Request.Context()).With().
			Uint("user_id", userID).
			Uint("organization_id", orgID).
			Logger().WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireOrgAdmin middleware checks if the user is an admin of the current organization
func RequireOrgAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenant, err := GetTenant(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		if !tenant.IsAdmin() {
			apierr.Abort(c, apierr.Forbidden("Organization admin access required"))
			return
		}

		c.Next()
	}
}
