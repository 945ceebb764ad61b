package blades

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

// Handler handles blade and blade type requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new blades handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateBladeRequest represents the request to register a blade
type CreateBladeRequest struct {
	IDNummer     string           `json:"id_nummer" binding:"required,min=1,max=100"`
	BladeTypeID  *uint            `json:"blade_type_id"`
	Side         models.BladeSide `json:"side"`
	Manufacturer string           `json:"manufacturer" binding:"max=100"`
	Note         string           `json:"note"`
}

// UpdateBladeRequest represents the request to update a blade
type UpdateBladeRequest struct {
	IDNummer     string            `json:"id_nummer" binding:"omitempty,min=1,max=100"`
	BladeTypeID  *uint             `json:"blade_type_id"`
	Side         *models.BladeSide `json:"side"`
	Manufacturer *string           `json:"manufacturer" binding:"omitempty,max=100"`
	Note         *string           `json:"note"`
}

// Mount is where a blade is currently mounted
type Mount struct {
	InstallID   uint   `json:"install_id"`
	SawID       uint   `json:"saw_id"`
	SawName     string `json:"saw_name"`
	InstalledAt string `json:"installed_at"`
}

// BladeResponse represents a blade in API responses
type BladeResponse struct {
	ID           uint             `json:"id"`
	IDNummer     string           `json:"id_nummer"`
	BladeTypeID  *uint            `json:"blade_type_id"`
	BladeType    string           `json:"blade_type,omitempty"`
	Side         models.BladeSide `json:"side"`
	Manufacturer string           `json:"manufacturer"`
	Note         string           `json:"note"`
	MountedOn    *Mount           `json:"mounted_on"`
	InService    bool             `json:"in_service"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

func bladeToResponse(blade models.SawBlade, current *models.BladeInstall, inService bool) BladeResponse {
	resp := BladeResponse{
		ID:           blade.ID,
		IDNummer:     blade.IDNummer,
		BladeTypeID:  blade.BladeTypeID,
		Side:         blade.Side,
		Manufacturer: blade.Manufacturer,
		Note:         blade.Note,
		InService:    inService,
		CreatedAt:    blade.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    blade.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if blade.BladeType != nil {
		resp.BladeType = blade.BladeType.Name
	}
	if current != nil {
		resp.MountedOn = &Mount{
			InstallID:   current.ID,
			SawID:       current.SawID,
			SawName:     current.Saw.Name,
			InstalledAt: current.InstalledAt.UTC().Format(time.RFC3339),
		}
	}
	return resp
}

func parseID(c *gin.Context, what string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, apierr.BadRequest("Invalid " + what + " ID")
	}
	return uint(id), nil
}

// checkBladeType verifies that a referenced blade type belongs to the organization
func (h *Handler) checkBladeType(orgID uint, typeID *uint) error {
	if typeID == nil {
		return nil
	}
	var count int64
	if err := h.db.Model(&models.BladeType{}).Where("id = ? AND organization_id = ?", *typeID, orgID).Count(&count).Error; err != nil {
		return apierr.Internal("Failed to check blade type", err)
	}
	if count == 0 {
		return apierr.BadRequest("Unknown blade type")
	}
	return nil
}

// serialTaken reports whether another live blade in the organization uses serial
func (h *Handler) serialTaken(orgID uint, serial string, excludeID uint) (bool, error) {
	var count int64
	query := h.db.Model(&models.SawBlade{}).Where("organization_id = ? AND id_nummer = ?", orgID, serial)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (h *Handler) findBlade(orgID, bladeID uint) (*models.SawBlade, error) {
	var blade models.SawBlade
	err := h.db.Preload("BladeType").Where("id = ? AND organization_id = ?", bladeID, orgID).First(&blade).Error
	if err != nil {
		return nil, database.Classify(err, "Blade not found", "")
	}
	return &blade, nil
}

func (h *Handler) respondBlade(c *gin.Context, status int, orgID uint, blade *models.SawBlade) {
	current, err := installs.CurrentByBlade(h.db, orgID, blade.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installation", err))
		return
	}
	inService, err := installs.InService(h.db, orgID, blade.ID)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch service state", err))
		return
	}
	c.JSON(status, bladeToResponse(*blade, current, inService))
}

// List returns the organization's blades
// @Summary List blades
// @Tags blades
// @Produce json
// @Param q query string false "Serial number contains"
// @Param type query int false "Blade type ID"
// @Param mounted query bool false "Only mounted (true) or unmounted (false) blades"
// @Success 200 {array} BladeResponse
// @Security BearerAuth
// @Router /blades [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	query := h.db.Preload("BladeType").Where("saw_blades.organization_id = ?", caller.OrganizationID)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		query = query.Where("saw_blades.id_nummer LIKE ?", "%"+q+"%")
	}
	if typeID := c.Query("type"); typeID != "" {
		query = query.Where("saw_blades.blade_type_id = ?", typeID)
	}
	mountedSub := h.db.Model(&models.BladeInstall{}).Select("blade_id").Where("removed_at IS NULL")
	switch c.Query("mounted") {
	case "true":
		query = query.Where("saw_blades.id IN (?)", mountedSub)
	case "false":
		query = query.Where("saw_blades.id NOT IN (?)", mountedSub)
	}

	var blades []models.SawBlade
	if err := query.Order("saw_blades.id_nummer").Find(&blades).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch blades", err))
		return
	}

	var current []models.BladeInstall
	if err := h.db.Preload("Saw", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("organization_id = ? AND removed_at IS NULL", caller.OrganizationID).
		Find(&current).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installations", err))
		return
	}
	byBlade := make(map[uint]*models.BladeInstall, len(current))
	for i := range current {
		byBlade[current[i].BladeID] = &current[i]
	}

	var away []uint
	if err := h.db.Model(&models.BladeService{}).
		Where("organization_id = ? AND returned_at IS NULL", caller.OrganizationID).
		Pluck("blade_id", &away).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch services", err))
		return
	}
	inService := make(map[uint]bool, len(away))
	for _, id := range away {
		inService[id] = true
	}

	responses := make([]BladeResponse, len(blades))
	for i, blade := range blades {
		responses[i] = bladeToResponse(blade, byBlade[blade.ID], inService[blade.ID])
	}

	c.JSON(http.StatusOK, responses)
}

// Create registers a blade
// @Summary Create blade
// @Tags blades
// @Accept json
// @Produce json
// @Param request body CreateBladeRequest true "Blade"
// @Success 201 {object} BladeResponse
// @Failure 409 {object} apierr.Response "Serial number already in use"
// @Security BearerAuth
// @Router /blades [post]
func (h *Handler) Create(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req CreateBladeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}
	if !req.Side.Valid() {
		apierr.Respond(c, apierr.BadRequest("Side must be Venstre, Høyre or empty"))
		return
	}
	if err := h.checkBladeType(caller.OrganizationID, req.BladeTypeID); err != nil {
		apierr.Respond(c, err)
		return
	}

	serial := strings.TrimSpace(req.IDNummer)
	taken, err := h.serialTaken(caller.OrganizationID, serial, 0)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to check serial number", err))
		return
	}
	if taken {
		apierr.Respond(c, apierr.Conflict("A blade with this ID number already exists"))
		return
	}

	blade := models.SawBlade{
		OrganizationID: caller.OrganizationID,
		IDNummer:       serial,
		BladeTypeID:    req.BladeTypeID,
		Side:           req.Side,
		Manufacturer:   strings.TrimSpace(req.Manufacturer),
		Note:           req.Note,
	}
	if err := h.db.Create(&blade).Error; err != nil {
		apierr.Respond(c, database.Classify(err, "Blade type not found", "A blade with this ID number already exists"))
		return
	}

	created, err := h.findBlade(caller.OrganizationID, blade.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, bladeToResponse(*created, nil, false))
}

// Get returns a blade with where it is mounted
// @Summary Get blade
// @Tags blades
// @Produce json
// @Param id path int true "Blade ID"
// @Success 200 {object} BladeResponse
// @Failure 404 {object} apierr.Response "Blade not found"
// @Security BearerAuth
// @Router /blades/{id} [get]
func (h *Handler) Get(c *gin.Context) {
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

	blade, err := h.findBlade(caller.OrganizationID, bladeID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	h.respondBlade(c, http.StatusOK, caller.OrganizationID, blade)
}

// Update edits a blade
// @Summary Update blade
// @Tags blades
// @Accept json
// @Produce json
// @Param id path int true "Blade ID"
// @Param request body UpdateBladeRequest true "Fields to change"
// @Success 200 {object} BladeResponse
// @Failure 409 {object} apierr.Response "Serial number already in use"
// @Security BearerAuth
// @Router /blades/{id} [put]
func (h *Handler) Update(c *gin.Context) {
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

	var req UpdateBladeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	blade, err := h.findBlade(caller.OrganizationID, bladeID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	updates := map[string]interface{}{}
	if serial := strings.TrimSpace(req.IDNummer); serial != "" && serial != blade.IDNummer {
		taken, err := h.serialTaken(caller.OrganizationID, serial, blade.ID)
		if err != nil {
			apierr.Respond(c, apierr.Internal("Failed to check serial number", err))
			return
		}
		if taken {
			apierr.Respond(c, apierr.Conflict("A blade with this ID number already exists"))
			return
		}
		updates["id_nummer"] = serial
	}
	if req.BladeTypeID != nil {
		if err := h.checkBladeType(caller.OrganizationID, req.BladeTypeID); err != nil {
			apierr.Respond(c, err)
			return
		}
		updates["blade_type_id"] = *req.BladeTypeID
	}
	if req.Side != nil {
		if !req.Side.Valid() {
			apierr.Respond(c, apierr.BadRequest("Side must be Venstre, Høyre or empty"))
			return
		}
		updates["side"] = *req.Side
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = strings.TrimSpace(*req.Manufacturer)
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := h.db.Model(&models.SawBlade{}).Where("id = ?", blade.ID).Updates(updates).Error; err != nil {
			apierr.Respond(c, database.Classify(err, "Blade not found", "A blade with this ID number already exists"))
			return
		}
	}

	updated, err := h.findBlade(caller.OrganizationID, blade.ID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	h.respondBlade(c, http.StatusOK, caller.OrganizationID, updated)
}

// Delete soft-deletes a blade. A mounted blade cannot be deleted.
// @Summary Delete blade
// @Tags blades
// @Param id path int true "Blade ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} apierr.Response "Blade is mounted"
// @Security BearerAuth
// @Router /blades/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
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
		return tx.Delete(blade).Error
	})
	if err != nil {
		apierr.Respond(c, database.Classify(err, "Blade not found", ""))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Blade deleted"})
}

// RegisterRoutes registers blade routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}
