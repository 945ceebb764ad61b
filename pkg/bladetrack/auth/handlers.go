package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

// Handler handles authentication requests
type Handler struct {
	db     *gorm.DB
	tokens *Tokens
}

// NewHandler creates a new auth handler
func NewHandler(db *gorm.DB, tokens *Tokens) *Handler {
	return &Handler{db: db, tokens: tokens}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	OrganizationID uint   `json:"organization_id"`
}

// SelectOrganizationRequest picks the active organization for the session
type SelectOrganizationRequest struct {
	OrganizationID uint `json:"organization_id" binding:"required"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token          string       `json:"token"`
	User           UserResponse `json:"user"`
	OrganizationID uint         `json:"organization_id,omitempty"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID            uint                 `json:"id"`
	Email         string               `json:"email"`
	Name          string               `json:"name"`
	SystemRole    string               `json:"system_role"`
	Organizations []MembershipResponse `json:"organizations,omitempty"`
}

// MembershipResponse is one organization the user belongs to
type MembershipResponse struct {
	OrganizationID uint   `json:"organization_id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Role           string `json:"role"`
}

func userToResponse(user models.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Name:       user.Name,
		SystemRole: string(user.SystemRole),
	}
}

// memberships returns the organizations the user belongs to
func (h *Handler) memberships(userID uint) ([]models.OrganizationMembership, error) {
	var memberships []models.OrganizationMembership
	err := h.db.Preload("Organization").
		Joins("JOIN organizations ON organizations.id = organization_memberships.organization_id AND organizations.deleted_at IS NULL").
		Where("organization_memberships.user_id = ?", userID).
		Order("organization_memberships.organization_id").
		Find(&memberships).Error
	return memberships, err
}

// pickOrganization decides the organization a fresh session starts in: the
// requested one if the user belongs to it, otherwise the only one they have.
func pickOrganization(memberships []models.OrganizationMembership, requested uint) (uint, error) {
	if requested != 0 {
		for _, m := range memberships {
			if m.OrganizationID == requested {
				return requested, nil
			}
		}
		return 0, apierr.NoOrganization("Not a member of this organization")
	}
	if len(memberships) == 1 {
		return memberships[0].OrganizationID, nil
	}
	return 0, nil
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account and receive a JWT token. The account has no organization until an organization admin adds it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} apierr.Response "Validation error"
// @Failure 409 {object} apierr.Response "Email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if email already exists
	var existingUser models.User
	if err := h.db.Where("email = ?", email).First(&existingUser).Error; err == nil {
		apierr.Respond(c, apierr.Conflict("Email already registered"))
		return
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to process password", err))
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(req.Name),
		SystemRole:   models.SystemRoleUser,
		Active:       true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to create user", err))
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, string(user.SystemRole), 0)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token: token,
		User:  userToResponse(user),
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate with email and password. The session starts in the requested organization, or in the user's only organization.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} apierr.Response "Validation error"
// @Failure 401 {object} apierr.Response "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&user).Error; err != nil {
		apierr.Respond(c, apierr.Unauthenticated("Invalid email or password"))
		return
	}

	if !user.Active || !CheckPassword(req.Password, user.PasswordHash) {
		apierr.Respond(c, apierr.Unauthenticated("Invalid email or password"))
		return
	}

	memberships, err := h.memberships(user.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch organizations", err))
		return
	}
	orgID, err := pickOrganization(memberships, req.OrganizationID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, string(user.SystemRole), orgID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:          token,
		User:           userToResponse(user),
		OrganizationID: orgID,
	})
}

// SelectOrganization re-issues the session token bound to another organization
// @Summary Select active organization
// @Description Switch the session to one of the user's organizations
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SelectOrganizationRequest true "Organization"
// @Success 200 {object} AuthResponse
// @Failure 403 {object} apierr.Response "Not a member"
// @Security BearerAuth
// @Router /auth/organization [post]
func (h *Handler) SelectOrganization(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req SelectOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		apierr.Respond(c, apierr.Unauthenticated("User not found"))
		return
	}

	memberships, err := h.memberships(user.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch organizations", err))
		return
	}
	orgID, err := pickOrganization(memberships, req.OrganizationID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Email, string(user.SystemRole), orgID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to generate token", err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:          token,
		User:           userToResponse(user),
		OrganizationID: orgID,
	})
}

// Me returns the current authenticated user
// @Summary Get current user
// @Description Get the authenticated user's profile and organizations
// @Tags auth
// @Produce json
// @Success 200 {object} UserResponse
// @Failure 401 {object} apierr.Response "Authentication required"
// @Security BearerAuth
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	userID, exists := GetUserID(c)
	if !exists {
		apierr.Respond(c, apierr.Unauthenticated("Authentication required"))
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		apierr.Respond(c, apierr.NotFound("User not found"))
		return
	}

	memberships, err := h.memberships(user.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch organizations", err))
		return
	}

	resp := userToResponse(user)
	for _, m := range memberships {
		resp.Organizations = append(resp.Organizations, MembershipResponse{
			OrganizationID: m.OrganizationID,
			Name:           m.Organization.Name,
			Slug:           m.Organization.Slug,
			Role:           string(m.Role),
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Logout handles user logout (client-side token invalidation)
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string "Logged out successfully"
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// RegisterRoutes registers auth routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", AuthMiddleware(h.tokens), h.Me)
	rg.POST("/organization", AuthMiddleware(h.tokens), h.SelectOrganization)
}
