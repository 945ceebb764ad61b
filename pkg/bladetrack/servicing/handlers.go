// Package servicing tracks blades sent away for sharpening, repair or
// inspection. A blade at service cannot be mounted, and a mounted blade cannot
// be sent to service.
package servicing

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
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler handles blade service requests
type Handler struct {
	db  *gorm.DB
	now func() time.Time
}

// NewHandler creates a new servicing handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, now: time.Now}
}

// SendRequest represents the request to send a blade to service
type SendRequest struct {
	Kind   models.ServiceKind `json:"kind" binding:"required,oneof=sharpening repair inspection"`
	Vendor string             `json:"vendor" binding:"max=100"`
	Note   string             `json:"note"`
}

// ReturnRequest represents the request to mark a service as done
type ReturnRequest struct {
	Note *string `json:"note"`
}

// ServiceResponse represents a service cycle in API responses
type ServiceResponse struct {
	ID           uint               `json:"id"`
	BladeID      uint               `json:"blade_id"`
	IDNummer     string             `json:"id_nummer"`
	Kind         models.ServiceKind `json:"kind"`
	Vendor       string             `json:"vendor"`
	Note         string             `json:"note"`
	SentAt       time.Time          `json:"sent_at"`
	SentByID     uint               `json:"sent_by_id"`
	ReturnedAt   *time.Time         `json:"returned_at"`
	ReturnedByID *uint              `json:"returned_by_id"`
}

func serviceToResponse(s models.BladeService) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID,
		BladeID:      s.BladeID,
		IDNummer:     s.Blade.IDNummer,
		Kind:         s.Kind,
		Vendor:       s.Vendor,
		Note:         s.Note,
		SentAt:       s.SentAt,
		SentByID:     s.SentByID,
		ReturnedAt:   s.ReturnedAt,
		ReturnedByID: s.ReturnedByID,
	}
}

func parseID(c *gin.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid " + what + " ID")
	}
	return uint(id), nil
}

// Send opens a service cycle for a blade
// @Summary Send blade to service
// @Tags servicing
// @Accept json
// @Produce json
// @Param id path int true "Blade ID"
// @Param request body SendRequest true "Service details"
// @Success 201 {object} ServiceResponse
// @Failure 409 {object} apierr.Response "Blade is mounted or already at service"
// @Security BearerAuth
// @Router /blades/{id}/service [post]
func (h *Handler) Send(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	bladeID, err := parseID(c, "blade")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	var service models.BladeService
	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		blade, err := installs.LockBlade(tx, caller.OrganizationID, bladeID)
		if err != nil {
			return err
		}
		current, err := installs.CurrentByBlade(tx, caller.OrganizationID, blade.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return apierr.Conflict("Blade is mounted on " + current.Saw.Name + "; uninstall it first")
		}
		away, err := installs.InService(tx, caller.OrganizationID, blade.ID)
		if err != nil {
			return err
		}
		if away {
			return apierr.Conflict("Blade is already at service")
		}

		service = models.BladeService{
			OrganizationID: caller.OrganizationID,
			BladeID:        blade.ID,
			Kind:           req.Kind,
			Vendor:         strings.TrimSpace(req.Vendor),
			Note:           req.Note,
			SentAt:         h.now(),
			SentByID:       caller.UserID,
			Blade:          *blade,
		}
		return tx.Omit("Blade").Create(&service).Error
	})
	if err != nil {
		apierr.Respond(c, database.Classify(err, "Blade not found", "Blade is already at service"))
		return
	}

	zerolog.Ctx(c.Request.Context()).Info().
		Uint("blade_id", bladeID).
		Str("kind", string(req.Kind)).
		Msg("blade sent to service")
	c.JSON(http.StatusCreated, serviceToResponse(service))
}

// Return closes a service cycle
// @Summary Mark service returned
// @Tags servicing
// @Accept json
// @Produce json
// @Param id path int true "Service ID"
// @Param request body ReturnRequest false "Return note"
// @Success 200 {object} ServiceResponse
// @Failure 409 {object} apierr.Response "Already returned"
// @Security BearerAuth
// @Router /services/{id}/return [post]
func (h *Handler) Return(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	serviceID, err := parseID(c, "service")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req ReturnRequest
	// Body is optional
	_ = c.ShouldBindJSON(&req)

	var service models.BladeService
	if err := h.db.Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ? AND organization_id = ?", serviceID, caller.OrganizationID).
		First(&service).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "Service not found", ""))
		return
	}

	now := h.now()
	updates := map[string]interface{}{"returned_at": now, "returned_by_id": caller.UserID}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	result := h.db.Model(&models.BladeService{}).
		Where("id = ? AND returned_at IS NULL", service.ID).
		Updates(updates)
	if result.Error != nil {
		apierr.Respond(c, apierr.Internal("Failed to update service", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		apierr.Respond(c, apierr.Conflict("Blade has already been returned"))
		return
	}

	service.ReturnedAt = &now
	service.ReturnedByID = &caller.UserID
	if req.Note != nil {
		service.Note = *req.Note
	}
	c.JSON(http.StatusOK, serviceToResponse(service))
}

// List returns service cycles, newest first
// @Summary List services
// @Tags servicing
// @Produce json
// @Param blade_id query int false "Filter by blade"
// @Param open query bool false "Only blades still at service"
// @Success 200 {array} ServiceResponse
// @Security BearerAuth
// @Router /services [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	h.list(c, caller.OrganizationID, c.Query("blade_id"))
}

// ListForBlade returns the service history of one blade
// @Summary List services of blade
// @Tags servicing
// @Produce json
// @Param id path int true "Blade ID"
// @Success 200 {array} ServiceResponse
// @Security BearerAuth
// @Router /blades/{id}/services [get]
func (h *Handler) ListForBlade(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	h.list(c, caller.OrganizationID, c.Param("id"))
}

func (h *Handler) list(c *gin.Context, orgID uint, bladeID string) {
	query := h.db.Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("organization_id = ?", orgID)
	if bladeID != "" {
		id, err := strconv.ParseUint(bladeID, 10, 32)
		if err != nil {
			apierr.Respond(c, apierr.BadRequest("Invalid blade ID"))
			return
		}
		query = query.Where("blade_id = ?", id)
	}
	if c.Query("open") == "true" {
		query = query.Where("returned_at IS NULL")
	}

	var services []models.BladeService
	if err := query.Order("sent_at DESC, id DESC").Find(&services).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch services", err))
		return
	}

	responses := make([]ServiceResponse, len(services))
	for i, s := range services {
		responses[i] = serviceToResponse(s)
	}
	c.JSON(http.StatusOK, responses)
}

// RegisterRoutes registers servicing routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/blades/:id/service", h.Send)
	rg.GET("/blades/:id/services", h.ListForBlade)
	rg.GET("/services", h.List)
	rg.POST("/services/:id/return", h.Return)
}
