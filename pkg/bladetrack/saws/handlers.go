package saws

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/installs"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

// Handler handles saw-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new saws handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateSawRequest represents the request to create a saw
type CreateSawRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=100"`
	Type   string `json:"type" binding:"max=100"`
	Active *bool  `json:"active"`
}

// UpdateSawRequest represents the request to update a saw
type UpdateSawRequest struct {
	Name   string  `json:"name" binding:"omitempty,min=1,max=100"`
	Type   *string `json:"type" binding:"omitempty,max=100"`
	Active *bool   `json:"active"`
}

// CurrentBlade is the blade mounted on a saw in list responses
type CurrentBlade struct {
	InstallID   uint             `json:"install_id"`
	BladeID     uint             `json:"blade_id"`
	IDNummer    string           `json:"id_nummer"`
	Side        models.BladeSide `json:"side"`
	InstalledAt string           `json:"installed_at"`
}

// SawResponse represents a saw in API responses
type SawResponse struct {
	ID           uint          `json:"id"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Active       bool          `json:"active"`
	CurrentBlade *CurrentBlade `json:"current_blade"`
	CreatedAt    string        `json:"created_at"`
	UpdatedAt    string        `json:"updated_at"`
}

func sawToResponse(saw models.Saw, current *models.BladeInstall) SawResponse {
	resp := SawResponse{
		ID:        saw.ID,
		Name:      saw.Name,
		Type:      saw.Type,
		Active:    saw.Active,
		CreatedAt: saw.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: saw.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if current != nil {
		resp.CurrentBlade = &CurrentBlade{
			InstallID:   current.ID,
			BladeID:     current.BladeID,
			IDNummer:    current.Blade.IDNummer,
			Side:        current.Side,
			InstalledAt: current.InstalledAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

func parseSawID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid saw ID")
	}
	return uint(id), nil
}

func (h *Handler) findSaw(orgID, sawID uint) (*models.Saw, error) {
	var saw models.Saw
	if err := h.db.Where("id = ? AND organization_id = ?", sawID, orgID).First(&saw).Error; err != nil {
		return nil, database.Classify(err, "Saw not found", "")
	}
	return &saw, nil
}

// List returns the organization's saws with the blade currently on each
// @Summary List saws
// @Tags saws
// @Produce json
// @Param active query bool false "Only active saws"
// @Success 200 {array} SawResponse
// @Security BearerAuth
// @Router /saws [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	query := h.db.Where("organization_id = ?", caller.OrganizationID)
	if c.Query("active") == "true" {
		query = query.Where("active = ?", true)
	}
	var saws []models.Saw
	if err := query.Order("name").Find(&saws).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch saws", err))
		return
	}

	var current []models.BladeInstall
	if err := h.db.Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("organization_id = ? AND removed_at IS NULL", caller.OrganizationID).
		Find(&current).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installations", err))
		return
	}
	bySaw := make(map[uint]*models.BladeInstall, len(current))
	for i := range current {
		bySaw[current[i].SawID] = &current[i]
	}

	responses := make([]SawResponse, len(saws))
	for i, saw := range saws {
		responses[i] = sawToResponse(saw, bySaw[saw.ID])
	}

	c.JSON(http.StatusOK, responses)
}

// Create registers a new saw
// @Summary Create saw
// @Tags saws
// @Accept json
// @Produce json
// @Param request body CreateSawRequest true "Saw"
// @Success 201 {object} SawResponse
// @Security BearerAuth
// @Router /saws [post]
func (h *Handler) Create(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req CreateSawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	saw := models.Saw{
		OrganizationID: caller.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Type:           strings.TrimSpace(req.Type),
		Active:         true,
	}
	if err := h.db.Create(&saw).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to create saw", err))
		return
	}
	// default:true on the column means false has to be written explicitly
	if req.Active != nil && !*req.Active {
		if err := h.db.Model(&saw).Update("active", false).Error; err != nil {
			apierr.Respond(c, apierr.Internal("Failed to create saw", err))
			return
		}
	}

	c.JSON(http.StatusCreated, sawToResponse(saw, nil))
}

// Get returns a saw with its current blade
// @Summary Get saw
// @Tags saws
// @Produce json
// @Param id path int true "Saw ID"
// @Success 200 {object} SawResponse
// @Failure 404 {object} apierr.Response "Saw not found"
// @Security BearerAuth
// @Router /saws/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseSawID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	saw, err := h.findSaw(caller.OrganizationID, sawID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	current, err := installs.CurrentBySaw(h.db, caller.OrganizationID, saw.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installation", err))
		return
	}

	c.JSON(http.StatusOK, sawToResponse(*saw, current))
}

// Update edits a saw
// @Summary Update saw
// @Tags saws
// @Accept json
// @Produce json
// @Param id path int true "Saw ID"
// @Param request body UpdateSawRequest true "Fields to change"
// @Success 200 {object} SawResponse
// @Security BearerAuth
// @Router /saws/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseSawID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req UpdateSawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	saw, err := h.findSaw(caller.OrganizationID, sawID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Type != nil {
		updates["type"] = strings.TrimSpace(*req.Type)
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) > 0 {
		if err := h.db.Model(saw).Updates(updates).Error; err != nil {
			apierr.Respond(c, apierr.Internal("Failed to update saw", err))
			return
		}
		if saw, err = h.findSaw(caller.OrganizationID, sawID); err != nil {
			apierr.Respond(c, err)
			return
		}
	}

	current, err := installs.CurrentBySaw(h.db, caller.OrganizationID, saw.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installation", err))
		return
	}
	c.JSON(http.StatusOK, sawToResponse(*saw, current))
}

// Delete soft-deletes a saw. A saw with a mounted blade cannot be deleted.
// @Summary Delete saw
// @Tags saws
// @Param id path int true "Saw ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} apierr.Response "Blade still mounted"
// @Security BearerAuth
// @Router /saws/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseSawID(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		saw, err := installs.LockSaw(tx, caller.OrganizationID, sawID)
		if err != nil {
			return err
		}
		current, err := installs.CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return apierr.Conflict("Uninstall blade " + current.Blade.IDNummer + " before deleting the saw")
		}
		return tx.Delete(saw).Error
	})
	if err != nil {
		apierr.Respond(c, database.Classify(err, "Saw not found", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Saw deleted"})
}

// RegisterRoutes registers saw routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
