package installs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/daterange"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
)

// Handler exposes the lifecycle manager over HTTP
type Handler struct {
	manager *Manager
}

// NewHandler creates a new installs handler
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// InstallRequest represents the request to mount a blade on a saw
type InstallRequest struct {
	BladeID       uint             `json:"blade_id" binding:"required"`
	Side          models.BladeSide `json:"side"`
	Note          string           `json:"note"`
	ReplaceReason string           `json:"replace_reason"`
	ReplaceNote   string           `json:"replace_note"`
}

// UninstallRequest represents the request to take the blade off a saw
type UninstallRequest struct {
	RemovedReason string `json:"removed_reason"`
	RemovedNote   string `json:"removed_note"`
}

// SwapRequest represents the request to replace the blade on a saw
type SwapRequest struct {
	NewBladeID    uint   `json:"new_blade_id" binding:"required"`
	RemovedReason string `json:"removed_reason"`
	RemovedNote   string `json:"removed_note"`
}

// MoveRequest represents the request to move a blade to another saw
type MoveRequest struct {
	FromSawID     *uint  `json:"from_saw_id"`
	ToSawID       uint   `json:"to_saw_id" binding:"required"`
	ReplaceReason string `json:"replace_reason"`
	ReplaceNote   string `json:"replace_note"`
}

// UpdateRequest represents the request to edit an installation. An explicit
// null removed_at asks to reopen the installation and is refused.
type UpdateRequest struct {
	Side          *models.BladeSide `json:"side"`
	Note          *string           `json:"note"`
	InstalledAt   *time.Time        `json:"installed_at"`
	RemovedAt     OptionalTime      `json:"removed_at,omitzero" swaggertype:"string" format:"date-time"`
	RemovedReason *string           `json:"removed_reason"`
	RemovedNote   *string           `json:"removed_note"`
}

// OptionalTime tells an absent JSON field apart from an explicit null
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// At returns a present, non-null time
func At(t time.Time) OptionalTime {
	return OptionalTime{Set: true, Value: &t}
}

// Null reports whether the field was sent as null
func (o OptionalTime) Null() bool {
	return o.Set && o.Value == nil
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

func (o OptionalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// CurrentResponse wraps the current installation, null when nothing is mounted
type CurrentResponse struct {
	Current *InstallView `json:"current"`
}

// HistoryResponse is a page of installations
type HistoryResponse struct {
	Installs []InstallView `json:"installs"`
	Total    int64         `json:"total"`
}

// NoChangeResponse is returned when a request left the installation store as it was
type NoChangeResponse struct {
	NoChange bool `json:"no_change"`
}

func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apierr.BadRequest("Invalid " + name)
	}
	return uint(id), nil
}

func parseOptionalID(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, apierr.BadRequest("Invalid " + name)
	}
	v := uint(id)
	return &v, nil
}

// CurrentOnSaw returns the blade mounted on a saw
// @Summary Current blade on saw
// @Tags installs
// @Produce json
// @Param id path int true "Saw ID"
// @Success 200 {object} CurrentResponse
// @Failure 404 {object} apierr.Response "Saw not found"
// @Security BearerAuth
// @Router /saws/{id}/current [get]
func (h *Handler) CurrentOnSaw(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	view, err := h.manager.CurrentOnSaw(c.Request.Context(), caller, sawID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, CurrentResponse{Current: view})
}

// CurrentForBlade returns where a blade is mounted
// @Summary Current installation of blade
// @Tags installs
// @Produce json
// @Param id path int true "Blade ID"
// @Success 200 {object} CurrentResponse
// @Failure 404 {object} apierr.Response "Blade not found"
// @Security BearerAuth
// @Router /blades/{id}/current [get]
func (h *Handler) CurrentForBlade(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	bladeID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	view, err := h.manager.CurrentForBlade(c.Request.Context(), caller, bladeID)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, CurrentResponse{Current: view})
}

// Install mounts a blade on a saw
// @Summary Install blade
// @Description Mount a blade on a saw. Replacing a mounted blade requires replace_reason. A blade mounted elsewhere is moved.
// @Tags installs
// @Accept json
// @Produce json
// @Param id path int true "Saw ID"
// @Param request body InstallRequest true "Blade to install"
// @Success 201 {object} InstallResult
// @Success 200 {object} NoChangeResponse "Blade already mounted"
// @Failure 400 {object} apierr.Response "Missing replace reason"
// @Failure 404 {object} apierr.Response "Saw or blade not found"
// @Failure 409 {object} apierr.Response "Concurrent change"
// @Security BearerAuth
// @Router /saws/{id}/install [post]
func (h *Handler) Install(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req InstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	result, err := h.manager.Install(c.Request.Context(), caller, sawID, req.BladeID, InstallOptions{
		Side:          req.Side,
		Note:          req.Note,
		ReplaceReason: req.ReplaceReason,
		ReplaceNote:   req.ReplaceNote,
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if result.NoChange {
		c.JSON(http.StatusOK, NoChangeResponse{NoChange: true})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Uninstall takes the current blade off a saw
// @Summary Uninstall blade
// @Tags installs
// @Accept json
// @Produce json
// @Param id path int true "Saw ID"
// @Param request body UninstallRequest true "Removal reason"
// @Success 200 {object} UninstallResult
// @Failure 400 {object} apierr.Response "Missing removal reason"
// @Failure 404 {object} apierr.Response "Saw not found"
// @Security BearerAuth
// @Router /saws/{id}/uninstall [post]
func (h *Handler) Uninstall(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req UninstallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	result, err := h.manager.Uninstall(c.Request.Context(), caller, sawID, req.RemovedReason, req.RemovedNote)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if result.NoChange {
		c.JSON(http.StatusOK, NoChangeResponse{NoChange: true})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Swap replaces the blade on a saw
// @Summary Swap blade
// @Description Replace the blade on a saw. The new blade must not be mounted anywhere.
// @Tags installs
// @Accept json
// @Produce json
// @Param id path int true "Saw ID"
// @Param request body SwapRequest true "New blade and removal reason"
// @Success 201 {object} SwapResult
// @Failure 400 {object} apierr.Response "Missing reason or blade already on this saw"
// @Failure 404 {object} apierr.Response "Saw or blade not found"
// @Failure 409 {object} apierr.Response "Blade mounted on another saw"
// @Security BearerAuth
// @Router /saws/{id}/swap [post]
func (h *Handler) Swap(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	sawID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	result, err := h.manager.Swap(c.Request.Context(), caller, sawID, req.NewBladeID, req.RemovedReason, req.RemovedNote)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Move mounts a blade on another saw
// @Summary Move blade
// @Tags installs
// @Accept json
// @Produce json
// @Param id path int true "Blade ID"
// @Param request body MoveRequest true "Target saw"
// @Success 201 {object} InstallResult
// @Success 200 {object} NoChangeResponse "Blade already on target saw"
// @Failure 404 {object} apierr.Response "Saw or blade not found"
// @Security BearerAuth
// @Router /blades/{id}/move [post]
func (h *Handler) Move(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	bladeID, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	result, err := h.manager.Move(c.Request.Context(), caller, bladeID, req.FromSawID, req.ToSawID, req.ReplaceReason, req.ReplaceNote)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if result.NoChange {
		c.JSON(http.StatusOK, NoChangeResponse{NoChange: true})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// List returns installation history
// @Summary List installations
// @Tags installs
// @Produce json
// @Param saw_id query int false "Filter by saw"
// @Param blade_id query int false "Filter by blade"
// @Param current query bool false "Only current installations"
// @Param from query string false "Installed at or after (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Installed at or before; a bare date includes the whole day"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} HistoryResponse
// @Security BearerAuth
// @Router /installs [get]
func (h *Handler) List(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var filter HistoryFilter
	if filter.SawID, err = parseOptionalID(c, "saw_id"); err != nil {
		apierr.Respond(c, err)
		return
	}
	if filter.BladeID, err = parseOptionalID(c, "blade_id"); err != nil {
		apierr.Respond(c, err)
		return
	}
	if filter.From, filter.To, err = daterange.Parse(c); err != nil {
		apierr.Respond(c, err)
		return
	}
	filter.CurrentOnly = c.Query("current") == "true"
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	views, total, err := h.manager.History(c.Request.Context(), caller, filter)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{Installs: views, Total: total})
}

// Get returns one installation
// @Summary Get installation
// @Tags installs
// @Produce json
// @Param id path int true "Installation ID"
// @Success 200 {object} InstallView
// @Failure 404 {object} apierr.Response "Installation not found"
// @Security BearerAuth
// @Router /installs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	view, err := h.manager.Get(c.Request.Context(), caller, id)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update edits an installation
// @Summary Update installation
// @Description Correct an installation record. A removed installation cannot be reopened.
// @Tags installs
// @Accept json
// @Produce json
// @Param id path int true "Installation ID"
// @Param request body UpdateRequest true "Fields to change"
// @Success 200 {object} InstallView
// @Failure 400 {object} apierr.Response "Invalid fields"
// @Failure 403 {object} apierr.Response "Organization admin required"
// @Failure 404 {object} apierr.Response "Installation not found"
// @Security BearerAuth
// @Router /installs/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	view, err := h.manager.Update(c.Request.Context(), caller, id, UpdateFields{
		Side:           req.Side,
		Note:           req.Note,
		InstalledAt:    req.InstalledAt,
		RemovedAt:      req.RemovedAt.Value,
		RemovedReason:  req.RemovedReason,
		RemovedNote:    req.RemovedNote,
		ClearRemovedAt: req.RemovedAt.Null(),
	})
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Delete removes an installation and its run logs
// @Summary Delete installation
// @Tags installs
// @Param id path int true "Installation ID"
// @Success 204
// @Failure 403 {object} apierr.Response "Organization admin required"
// @Failure 404 {object} apierr.Response "Installation not found"
// @Security BearerAuth
// @Router /installs/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	if err := h.manager.Delete(c.Request.Context(), caller, id); err != nil {
		apierr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers lifecycle routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/saws/:id/current", h.CurrentOnSaw)
	rg.POST("/saws/:id/install", h.Install)
	rg.POST("/saws/:id/uninstall", h.Uninstall)
	rg.POST("/saws/:id/swap", h.Swap)
	rg.GET("/blades/:id/current", h.CurrentForBlade)
	rg.POST("/blades/:id/move", h.Move)

	installs := rg.Group("/installs")
	installs.GET("", h.List)
	installs.GET("/:id", h.Get)
	installs.PUT("/:id", auth.RequireOrgAdmin(), h.Update)
	installs.DELETE("/:id", auth.RequireOrgAdmin(), h.Delete)
}
