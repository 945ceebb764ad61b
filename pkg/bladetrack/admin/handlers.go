package admin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler handles system admin requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UserResponse represents user data in admin responses
type UserResponse struct {
	ID                uint   `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name"`
	SystemRole        string `json:"system_role"`
	Active            bool   `json:"active"`
	CreatedAt         string `json:"created_at"`
	OrganizationCount int64  `json:"organization_count"`
	InstallCount      int64  `json:"install_count"`
}

// UpdateUserRequest represents the request to update a user
type UpdateUserRequest struct {
	Name       *string `json:"name"`
	SystemRole *string `json:"system_role"`
	Active     *bool   `json:"active"`
}

// StatsResponse represents system statistics
type StatsResponse struct {
	TotalUsers         int64 `json:"total_users"`
	AdminUsers         int64 `json:"admin_users"`
	TotalOrganizations int64 `json:"total_organizations"`
	TotalSaws          int64 `json:"total_saws"`
	TotalBlades        int64 `json:"total_blades"`
	TotalInstalls      int64 `json:"total_installs"`
	CurrentInstalls    int64 `json:"current_installs"`
	BladesAtService    int64 `json:"blades_at_service"`
	TotalRunLogs       int64 `json:"total_run_logs"`
	ActiveAPIKeys      int64 `json:"active_api_keys"`
}

func (h *Handler) toResponse(user models.User) UserResponse {
	var orgCount, installCount int64
	h.db.Model(&models.OrganizationMembership{}).Where("user_id = ?", user.ID).Count(&orgCount)
	h.db.Model(&models.BladeInstall{}).Where("installed_by_id = ?", user.ID).Count(&installCount)

	return UserResponse{
		ID:                user.ID,
		Email:             user.Email,
		Name:              user.Name,
		SystemRole:        string(user.SystemRole),
		Active:            user.Active,
		CreatedAt:         user.CreatedAt.UTC().Format(time.RFC3339),
		OrganizationCount: orgCount,
		InstallCount:      installCount,
	}
}

func parseUserID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid user ID")
	}
	return uint(id), nil
}

func parseSystemRole(s string) (models.SystemRole, bool) {
	for _, r := range []models.SystemRole{models.SystemRoleAdmin, models.SystemRoleUser} {
		if r.Is(models.SystemRole(s)) {
			return r, true
		}
	}
	return "", false
}

// ListUsers returns all users
// @Summary List users
// @Tags admin
// @Produce json
// @Param q query string false "Search by email or name"
// @Param role query string false "Filter by system role"
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User

	query := h.db.Order("created_at DESC")

	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("LOWER(system_role) = ?", strings.ToLower(role))
	}

	if err := query.Find(&users).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch users", err))
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = h.toResponse(user)
	}
	c.JSON(http.StatusOK, responses)
}

// GetUser returns a single user by ID
// @Summary Get user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "User not found", ""))
		return
	}
	c.JSON(http.StatusOK, h.toResponse(user))
}

// UpdateUser updates a user's profile, role or active flag
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} UserResponse
// @Security BearerAuth
// @Router /admin/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "User not found", ""))
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	currentUserID, _ := auth.GetUserID(c)
	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			apierr.Respond(c, apierr.BadRequest("Name cannot be empty"))
			return
		}
		updates["name"] = name
	}
	if req.SystemRole != nil {
		role, ok := parseSystemRole(*req.SystemRole)
		if !ok {
			apierr.Respond(c, apierr.BadRequest("Invalid system role"))
			return
		}
		if id == currentUserID && role != models.SystemRoleAdmin {
			apierr.Respond(c, apierr.BadRequest("Cannot demote yourself"))
			return
		}
		updates["system_role"] = role
	}
	if req.Active != nil {
		if id == currentUserID && !*req.Active {
			apierr.Respond(c, apierr.BadRequest("Cannot deactivate yourself"))
			return
		}
		updates["active"] = *req.Active
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			apierr.Respond(c, apierr.Internal("Failed to update user", err))
			return
		}
	}

	// Reload user
	h.db.First(&user, id)
	c.JSON(http.StatusOK, h.toResponse(user))
}

// DeleteUser soft-deletes a user with their memberships and API keys.
// Installation history keeps the user's ID.
// @Summary Delete user
// @Tags admin
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := parseUserID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	currentUserID, _ := auth.GetUserID(c)
	if id == currentUserID {
		apierr.Respond(c, apierr.BadRequest("Cannot delete yourself"))
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "User not found", ""))
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.APIKey{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.OrganizationMembership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to delete user", err))
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().
		Uint("user_id", user.ID).
		Uint("deleted_by", currentUserID).
		Msg("user deleted")
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// GetStats returns system-wide statistics
// @Summary System statistics
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("LOWER(system_role) = ?", string(models.SystemRoleAdmin)).Count(&stats.AdminUsers)
	h.db.Model(&models.Organization{}).Count(&stats.TotalOrganizations)
	h.db.Model(&models.Saw{}).Count(&stats.TotalSaws)
	h.db.Model(&models.SawBlade{}).Count(&stats.TotalBlades)
	h.db.Model(&models.BladeInstall{}).Count(&stats.TotalInstalls)
	h.db.Model(&models.BladeInstall{}).Where("removed_at IS NULL").Count(&stats.CurrentInstalls)
	h.db.Model(&models.BladeService{}).Where("returned_at IS NULL").Count(&stats.BladesAtService)
	h.db.Model(&models.BladeRunLog{}).Count(&stats.TotalRunLogs)
	h.db.Model(&models.APIKey{}).Count(&stats.ActiveAPIKeys)

	c.JSON(http.StatusOK, stats)
}

// RegisterRoutes registers admin routes on a group already behind RequireAdmin
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.PUT("/users/:id", h.UpdateUser)
	rg.DELETE("/users/:id", h.DeleteUser)
}
