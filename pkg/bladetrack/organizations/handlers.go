package organizations

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

// Handler handles organization-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new organizations handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpdateOrgRequest represents the request to update an organization
type UpdateOrgRequest struct {
	Name string `json:"name" binding:"omitempty,min=1,max=100"`
}

// OrgResponse represents an organization in API responses
type OrgResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Role        string `json:"role,omitempty"` // User's role in this org
	MemberCount int    `json:"member_count,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// AddMemberRequest represents the request to add a member
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

// UpdateMemberRequest represents the request to update a member's role
type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required"`
}

// parseRole accepts admin or member in any case and returns the canonical form
func parseRole(role string) (models.OrgRole, error) {
	switch r := models.OrgRole(strings.TrimSpace(role)); {
	case r.Is(models.OrgRoleAdmin):
		return models.OrgRoleAdmin, nil
	case r.Is(models.OrgRoleMember):
		return models.OrgRoleMember, nil
	}
	return "", apierr.BadRequest("Role must be admin or member")
}

func parseOrgID(c *gin.Context) (uint, error) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid organization ID")
	}
	return uint(orgID), nil
}

// membership returns the caller's membership in orgID. Non-members get the
// same not-found answer as for an organization that does not exist.
func (h *Handler) membership(userID, orgID uint) (*models.OrganizationMembership, error) {
	var membership models.OrganizationMembership
	err := h.db.Preload("Organization").
		Joins("JOIN organizations ON organizations.id = organization_memberships.organization_id AND organizations.deleted_at IS NULL").
		Where("organization_memberships.user_id = ? AND organization_memberships.organization_id = ?", userID, orgID).
		First(&membership).Error
	if err != nil {
		return nil, database.Classify(err, "Organization not found", "")
	}
	return &membership, nil
}

func (h *Handler) requireAdmin(userID, orgID uint) (*models.OrganizationMembership, error) {
	membership, err := h.membership(userID, orgID)
	if err != nil {
		return nil, err
	}
	if !membership.Role.Is(models.OrgRoleAdmin) {
		return nil, apierr.Forbidden("Admin access required")
	}
	return membership, nil
}

func (h *Handler) adminCount(orgID uint) (int64, error) {
	var n int64
	err := h.db.Model(&models.OrganizationMembership{}).
		Where("organization_id = ? AND LOWER(role) = ?", orgID, string(models.OrgRoleAdmin)).
		Count(&n).Error
	return n, err
}

func (h *Handler) memberCount(orgID uint) int {
	var n int64
	h.db.Model(&models.OrganizationMembership{}).Where("organization_id = ?", orgID).Count(&n)
	return int(n)
}

func orgToResponse(org models.Organization, role models.OrgRole, members int) OrgResponse {
	return OrgResponse{
		ID:          org.ID,
		Name:        org.Name,
		Slug:        org.Slug,
		Role:        string(role),
		MemberCount: members,
		CreatedAt:   org.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func memberToResponse(m models.OrganizationMembership) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Email:     m.User.Email,
		Name:      m.User.Name,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List returns all organizations the current user is a member of
// @Summary List my organizations
// @Tags organizations
// @Produce json
// @Success 200 {array} OrgResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var memberships []models.OrganizationMembership
	err := h.db.Preload("Organization").
		Joins("JOIN organizations ON organizations.id = organization_memberships.organization_id AND organizations.deleted_at IS NULL").
		Where("organization_memberships.user_id = ?", userID).
		Order("organization_memberships.organization_id").
		Find(&memberships).Error
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch organizations", err))
		return
	}

	orgs := make([]OrgResponse, len(memberships))
	for i, m := range memberships {
		orgs[i] = orgToResponse(m.Organization, m.Role, h.memberCount(m.OrganizationID))
	}

	c.JSON(http.StatusOK, orgs)
}

// Get returns a specific organization
// @Summary Get organization
// @Tags organizations
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {object} OrgResponse
// @Failure 404 {object} apierr.Response "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	membership, err := h.membership(userID, orgID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, orgToResponse(membership.Organization, membership.Role, h.memberCount(orgID)))
}

// Update renames an organization (admin only)
// @Summary Update organization
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path int true "Organization ID"
// @Param request body UpdateOrgRequest true "New name"
// @Success 200 {object} OrgResponse
// @Failure 403 {object} apierr.Response "Admin access required"
// @Security BearerAuth
// @Router /organizations/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	membership, err := h.requireAdmin(userID, orgID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req UpdateOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	org := membership.Organization
	if name := strings.TrimSpace(req.Name); name != "" {
		org.Name = name
	}
	if err := h.db.Model(&org).Update("name", org.Name).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to update organization", err))
		return
	}

	c.JSON(http.StatusOK, orgToResponse(org, membership.Role, h.memberCount(orgID)))
}

// ListMembers returns all members of an organization
// @Summary List members
// @Tags organizations
// @Produce json
// @Param id path int true "Organization ID"
// @Success 200 {array} MemberResponse
// @Security BearerAuth
// @Router /organizations/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if _, err := h.membership(userID, orgID); err != nil {
		apierr.Respond(c, err)
		return
	}

	var memberships []models.OrganizationMembership
	if err := h.db.Preload("User").Where("organization_id = ?", orgID).Order("id").Find(&memberships).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch members", err))
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = memberToResponse(m)
	}

	c.JSON(http.StatusOK, members)
}

// AddMember adds a user to an organization (admin only)
// @Summary Add member
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path int true "Organization ID"
// @Param request body AddMemberRequest true "Member"
// @Success 201 {object} MemberResponse
// @Failure 409 {object} apierr.Response "Already a member"
// @Security BearerAuth
// @Router /organizations/{id}/members [post]
func (h *Handler) AddMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if _, err := h.requireAdmin(userID, orgID); err != nil {
		apierr.Respond(c, err)
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "User not found", ""))
		return
	}

	membership := models.OrganizationMembership{
		OrganizationID: orgID,
		UserID:         user.ID,
		Role:           role,
		User:           user,
	}
	// A soft-deleted membership still holds the unique (organization, user) slot
	var existing models.OrganizationMembership
	err = h.db.Unscoped().Where("organization_id = ? AND user_id = ?", orgID, user.ID).First(&existing).Error
	switch {
	case err == nil && !existing.DeletedAt.Valid:
		apierr.Respond(c, apierr.Conflict("User is already a member"))
		return
	case err == nil:
		membership.ID = existing.ID
		membership.CreatedAt = existing.CreatedAt
		err = h.db.Unscoped().Model(&existing).Updates(map[string]interface{}{"deleted_at": nil, "role": role}).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = h.db.Omit("User").Create(&membership).Error
	}
	if err != nil {
		apierr.Respond(c, database.Classify(err, "User not found", "User is already a member"))
		return
	}

	c.JSON(http.StatusCreated, memberToResponse(membership))
}

// UpdateMember updates a member's role (admin only)
// @Summary Update member role
// @Tags organizations
// @Accept json
// @Produce json
// @Param id path int true "Organization ID"
// @Param userId path int true "User ID"
// @Param request body UpdateMemberRequest true "Role"
// @Success 200 {object} MemberResponse
// @Security BearerAuth
// @Router /organizations/{id}/members/{userId} [put]
func (h *Handler) UpdateMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		apierr.Respond(c, apierr.BadRequest("Invalid user ID"))
		return
	}

	if _, err := h.requireAdmin(userID, orgID); err != nil {
		apierr.Respond(c, err)
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}
	role, err := parseRole(req.Role)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var membership models.OrganizationMembership
	if err := h.db.Preload("User").Where("organization_id = ? AND user_id = ?", orgID, targetUserID).First(&membership).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "Member not found", ""))
		return
	}

	// Cannot demote the last admin
	if membership.Role.Is(models.OrgRoleAdmin) && role == models.OrgRoleMember {
		admins, err := h.adminCount(orgID)
		if err != nil {
			apierr.Respond(c, apierr.Internal("Failed to count admins", err))
			return
		}
		if admins <= 1 {
			apierr.Respond(c, apierr.BadRequest("Cannot demote the only admin"))
			return
		}
	}

	membership.Role = role
	if err := h.db.Model(&membership).Update("role", role).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to update member", err))
		return
	}

	c.JSON(http.StatusOK, memberToResponse(membership))
}

// RemoveMember removes a member from an organization (admin only, or self)
// @Summary Remove member
// @Tags organizations
// @Param id path int true "Organization ID"
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /organizations/{id}/members/{userId} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	orgID, err := parseOrgID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	targetUserID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		apierr.Respond(c, apierr.BadRequest("Invalid user ID"))
		return
	}

	if userID == uint(targetUserID) {
		_, err = h.membership(userID, orgID)
	} else {
		_, err = h.requireAdmin(userID, orgID)
	}
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var membership models.OrganizationMembership
	if err := h.db.Where("organization_id = ? AND user_id = ?", orgID, targetUserID).First(&membership).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "Member not found", ""))
		return
	}

	// Cannot remove the last admin
	if membership.Role.Is(models.OrgRoleAdmin) {
		admins, err := h.adminCount(orgID)
		if err != nil {
			apierr.Respond(c, apierr.Internal("Failed to count admins", err))
			return
		}
		if admins <= 1 {
			apierr.Respond(c, apierr.BadRequest("Cannot remove the only admin"))
			return
		}
	}

	if err := h.db.Delete(&membership).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to remove member", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterRoutes registers organization routes. Organizations are
// provisioned outside the API, so there is no create or delete.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.POST("/:id/members", h.AddMember)
	rg.PUT("/:id/members/:userId", h.UpdateMember)
	rg.DELETE("/:id/members/:userId", h.RemoveMember)
}
