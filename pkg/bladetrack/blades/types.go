package blades

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
)

// BladeTypeRequest is the body for creating or replacing a blade type
type BladeTypeRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description"`
	DiameterMM  *int   `json:"diameter_mm" binding:"omitempty,min=1,max=5000"`
	TeethCount  *int   `json:"teeth_count" binding:"omitempty,min=1,max=500"`
}

// BladeTypeResponse represents a blade type with the number of blades using it
type BladeTypeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DiameterMM  *int   `json:"diameter_mm,omitempty"`
	TeethCount  *int   `json:"teeth_count,omitempty"`
	BladeCount  int64  `json:"blade_count"`
}

func typeToResponse(bt models.BladeType, count int64) BladeTypeResponse {
	return BladeTypeResponse{
		ID:          bt.ID,
		Name:        bt.Name,
		Description: bt.Description,
		DiameterMM:  bt.DiameterMM,
		TeethCount:  bt.TeethCount,
		BladeCount:  count,
	}
}

func (h *Handler) bladeCount(typeID uint) int64 {
	var n int64
	h.db.Model(&models.SawBlade{}).Where("blade_type_id = ?", typeID).Count(&n)
	return n
}

func (h *Handler) findType(orgID, typeID uint) (*models.BladeType, error) {
	var bt models.BladeType
	if err := h.db.Where("id = ? AND organization_id = ?", typeID, orgID).First(&bt).Error; err != nil {
		return nil, database.Classify(err, "Blade type not found", "")
	}
	return &bt, nil
}

// ListTypes returns the organization's blade type catalogue
// @Summary List blade types
// @Tags blade-types
// @Produce json
// @Success 200 {array} BladeTypeResponse
// @Security BearerAuth
// @Router /blade-types [get]
func (h *Handler) ListTypes(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var types []models.BladeType
	if err := h.db.Where("organization_id = ?", caller.OrganizationID).Order("name").Find(&types).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch blade types", err))
		return
	}

	responses := make([]BladeTypeResponse, len(types))
	for i, bt := range types {
		responses[i] = typeToResponse(bt, h.bladeCount(bt.ID))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateType adds a blade type
// @Summary Create blade type
// @Tags blade-types
// @Accept json
// @Produce json
// @Param request body BladeTypeRequest true "Blade type"
// @Success 201 {object} BladeTypeResponse
// @Security BearerAuth
// @Router /blade-types [post]
func (h *Handler) CreateType(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req BladeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	bt := models.BladeType{
		OrganizationID: caller.OrganizationID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		DiameterMM:     req.DiameterMM,
		TeethCount:     req.TeethCount,
	}
	if err := h.db.Create(&bt).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to create blade type", err))
		return
	}
	c.JSON(http.StatusCreated, typeToResponse(bt, 0))
}

// UpdateType replaces a blade type's fields
// @Summary Update blade type
// @Tags blade-types
// @Accept json
// @Produce json
// @Param id path int true "Blade type ID"
// @Param request body BladeTypeRequest true "Blade type"
// @Success 200 {object} BladeTypeResponse
// @Security BearerAuth
// @Router /blade-types/{id} [put]
func (h *Handler) UpdateType(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	typeID, err := parseID(c, "blade type")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req BladeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	bt, err := h.findType(caller.OrganizationID, typeID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	bt.Name = strings.TrimSpace(req.Name)
	bt.Description = req.Description
	bt.DiameterMM = req.DiameterMM
	bt.TeethCount = req.TeethCount
	if err := h.db.Save(bt).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to update blade type", err))
		return
	}
	c.JSON(http.StatusOK, typeToResponse(*bt, h.bladeCount(bt.ID)))
}

// DeleteType removes a blade type that no blade uses
// @Summary Delete blade type
// @Tags blade-types
// @Param id path int true "Blade type ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} apierr.Response "Blade type in use"
// @Security BearerAuth
// @Router /blade-types/{id} [delete]
func (h *Handler) DeleteType(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	typeID, err := parseID(c, "blade type")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	bt, err := h.findType(caller.OrganizationID, typeID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if h.bladeCount(bt.ID) > 0 {
		apierr.Respond(c, apierr.Conflict("Blade type is used by existing blades"))
		return
	}
	if err := h.db.Delete(bt).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to delete blade type", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blade type deleted"})
}

// RegisterTypeRoutes registers blade type routes on a group already behind TenancyGuard
func (h *Handler) RegisterTypeRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListTypes)
	rg.POST("", h.CreateType)
	rg.PUT("/:id", h.UpdateType)
	rg.DELETE("/:id", h.DeleteType)
}
