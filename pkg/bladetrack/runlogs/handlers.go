// Package runlogs records production metrics against blade installations.
package runlogs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

// Handler handles run log requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new run logs handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// RunLogRequest carries the measured values. Omitted values are stored as null.
type RunLogRequest struct {
	Hours         *float64 `json:"hours" binding:"omitempty,gte=0,lte=10000"`
	TemperatureC  *float64 `json:"temperature_c" binding:"omitempty,gte=-50,lte=400"`
	Amperage      *float64 `json:"amperage" binding:"omitempty,gte=0,lte=2000"`
	StockCount    *int     `json:"stock_count" binding:"omitempty,gte=0"`
	SideClearance *float64 `json:"side_clearance" binding:"omitempty,gte=0,lte=50"`
	Note          string   `json:"note" binding:"max=2000"`
}

// RunLogResponse represents a run log in API responses
type RunLogResponse struct {
	ID            uint     `json:"id"`
	InstallID     uint     `json:"install_id"`
	CreatedByID   uint     `json:"created_by_id"`
	Hours         *float64 `json:"hours"`
	TemperatureC  *float64 `json:"temperature_c"`
	Amperage      *float64 `json:"amperage"`
	StockCount    *int     `json:"stock_count"`
	SideClearance *float64 `json:"side_clearance"`
	Note          string   `json:"note"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func logToResponse(l models.BladeRunLog) RunLogResponse {
	return RunLogResponse{
		ID:            l.ID,
		InstallID:     l.InstallID,
		CreatedByID:   l.CreatedByID,
		Hours:         l.Hours,
		TemperatureC:  l.TemperatureC,
		Amperage:      l.Amperage,
		StockCount:    l.StockCount,
		SideClearance: l.SideClearance,
		Note:          l.Note,
		CreatedAt:     l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (r RunLogRequest) apply(l *models.BladeRunLog) {
	l.Hours = r.Hours
	l.TemperatureC = r.TemperatureC
	l.Amperage = r.Amperage
	l.StockCount = r.StockCount
	l.SideClearance = r.SideClearance
	l.Note = r.Note
}

func parseID(c *gin.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid " + what + " ID")
	}
	return uint(id), nil
}

// installInOrg verifies the installation belongs to the organization
func (h *Handler) installInOrg(orgID, installID uint) error {
	var count int64
	if err := h.db.Model(&models.BladeInstall{}).Where("id = ? AND organization_id = ?", installID, orgID).Count(&count).Error; err != nil {
		return apierr.Internal("Failed to fetch installation", err)
	}
	if count == 0 {
		return apierr.NotFound("Installation not found")
	}
	return nil
}

func (h *Handler) findLog(orgID, logID uint) (*models.BladeRunLog, error) {
	var l models.BladeRunLog
	if err := h.db.Where("id = ? AND organization_id = ?", logID, orgID).First(&l).Error; err != nil {
		return nil, database.Classify(err, "Run log not found", "")
	}
	return &l, nil
}

// List returns the run logs of an installation
// @Summary List run logs
// @Tags runlogs
// @Produce json
// @Param id path int true "Installation ID"
// @Success 200 {array} RunLogResponse
// @Security BearerAuth
// @Router /installs/{id}/runlogs [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	installID, err := parseID(c, "installation")
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if err := h.installInOrg(caller.OrganizationID, installID); err != nil {
		apierr.Respond(c, err)
		return
	}

	var logs []models.BladeRunLog
	if err := h.db.Where("install_id = ?", installID).Order("created_at, id").Find(&logs).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch run logs", err))
		return
	}

	responses := make([]RunLogResponse, len(logs))
	for i, l := range logs {
		responses[i] = logToResponse(l)
	}
	c.JSON(http.StatusOK, responses)
}

// Create appends a run log to an installation
// @Summary Add run log
// @Tags runlogs
// @Accept json
// @Produce json
// @Param id path int true "Installation ID"
// @Param request body RunLogRequest true "Measurements"
// @Success 201 {object} RunLogResponse
// @Failure 400 {object} apierr.Response "Value out of range"
// @Security BearerAuth
// @Router /installs/{id}/runlogs [post]
func (h *Handler) Create(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	installID, err := parseID(c, "installation")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req RunLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}
	if err := h.installInOrg(caller.OrganizationID, installID); err != nil {
		apierr.Respond(c, err)
		return
	}

	l := models.BladeRunLog{
		OrganizationID: caller.OrganizationID,
		InstallID:      installID,
		CreatedByID:    caller.UserID,
	}
	req.apply(&l)
	if err := h.db.Create(&l).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to create run log", err))
		return
	}
	c.JSON(http.StatusCreated, logToResponse(l))
}

// Upsert sets the run log of an installation, creating it if there is none.
// With several logs the most recent one is replaced.
// @Summary Set run log
// @Tags runlogs
// @Accept json
// @Produce json
// @Param id path int true "Installation ID"
// @Param request body RunLogRequest true "Measurements"
// @Success 200 {object} RunLogResponse
// @Success 201 {object} RunLogResponse
// @Security BearerAuth
// @Router /installs/{id}/runlog [put]
func (h *Handler) Upsert(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	installID, err := parseID(c, "installation")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req RunLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}
	if err := h.installInOrg(caller.OrganizationID, installID); err != nil {
		apierr.Respond(c, err)
		return
	}

	status := http.StatusOK
	var l models.BladeRunLog
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("install_id = ?", installID).Order("created_at DESC, id DESC").First(&l).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			status = http.StatusCreated
			l = models.BladeRunLog{
				OrganizationID: caller.OrganizationID,
				InstallID:      installID,
				CreatedByID:    caller.UserID,
			}
			req.apply(&l)
			return tx.Create(&l).Error
		}
		if err != nil {
			return err
		}
		req.apply(&l)
		return tx.Save(&l).Error
	})
	if err != nil {
		apierr.Respond(c, database.Classify(err, "Installation not found", ""))
		return
	}
	c.JSON(status, logToResponse(l))
}

// Update replaces the values of a run log
// @Summary Update run log
// @Tags runlogs
// @Accept json
// @Produce json
// @Param id path int true "Run log ID"
// @Param request body RunLogRequest true "Measurements"
// @Success 200 {object} RunLogResponse
// @Security BearerAuth
// @Router /runlogs/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	logID, err := parseID(c, "run log")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req RunLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	l, err := h.findLog(caller.OrganizationID, logID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	req.apply(l)
	if err := h.db.Save(l).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to update run log", err))
		return
	}
	c.JSON(http.StatusOK, logToResponse(*l))
}

// Delete removes a run log
// @Summary Delete run log
// @Tags runlogs
// @Param id path int true "Run log ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /runlogs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	logID, err := parseID(c, "run log")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	l, err := h.findLog(caller.OrganizationID, logID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if err := h.db.Delete(l).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to delete run log", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Run log deleted"})
}

// RegisterRoutes registers run log routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/installs/:id/runlogs", h.List)
	rg.POST("/installs/:id/runlogs", h.Create)
	rg.PUT("/installs/:id/runlog", h.Upsert)
	rg.PUT("/runlogs/:id", h.Update)
	rg.DELETE("/runlogs/:id", h.Delete)
}
