// Package stats serves read-only aggregates over an organization's
// installation history and run logs.
package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/daterange"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
)

// Handler handles statistics requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new stats handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// SummaryResponse holds the fleet totals of one organization
type SummaryResponse struct {
	Saws            int64   `json:"saws"`
	ActiveSaws      int64   `json:"active_saws"`
	Blades          int64   `json:"blades"`
	MountedBlades   int64   `json:"mounted_blades"`
	BladesAtService int64   `json:"blades_at_service"`
	Installs        int64   `json:"installs"`
	RunLogs         int64   `json:"run_logs"`
	HoursSawed      float64 `json:"hours_sawed"`
}

// ReasonCount is one bucket of the removal reason histogram
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// SawHours is the run-hour total of one saw
type SawHours struct {
	SawID    uint    `json:"saw_id"`
	SawName  string  `json:"saw_name"`
	Hours    float64 `json:"hours"`
	RunLogs  int64   `json:"run_logs"`
	Installs int64   `json:"installs"`
}

// Summary returns fleet totals
// @Summary Organization summary
// @Tags stats
// @Produce json
// @Success 200 {object} SummaryResponse
// @Security BearerAuth
// @Router /stats/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var s SummaryResponse
	org := func(model interface{}) *gorm.DB {
		return h.db.Model(model).Where("organization_id = ?", caller.OrganizationID)
	}
	queries := []*gorm.DB{
		org(&models.Saw{}).Count(&s.Saws),
		org(&models.Saw{}).Where("active = ?", true).Count(&s.ActiveSaws),
		org(&models.SawBlade{}).Count(&s.Blades),
		org(&models.BladeInstall{}).Where("removed_at IS NULL").Count(&s.MountedBlades),
		org(&models.BladeService{}).Where("returned_at IS NULL").Count(&s.BladesAtService),
		org(&models.BladeInstall{}).Count(&s.Installs),
		org(&models.BladeRunLog{}).Count(&s.RunLogs),
		org(&models.BladeRunLog{}).Select("COALESCE(SUM(hours), 0)").Scan(&s.HoursSawed),
	}
	for _, q := range queries {
		if q.Error != nil {
			apierr.Respond(c, apierr.Internal("Failed to compute summary", q.Error))
			return
		}
	}

	c.JSON(http.StatusOK, s)
}

// RemovalReasons returns how often each removal reason was used
// @Summary Removal reason histogram
// @Tags stats
// @Produce json
// @Param from query string false "Removed at or after (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Removed at or before; a bare date includes the whole day"
// @Success 200 {array} ReasonCount
// @Security BearerAuth
// @Router /stats/removal-reasons [get]
func (h *Handler) RemovalReasons(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	from, to, err := daterange.Parse(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	query := h.db.Model(&models.BladeInstall{}).
		Select("removed_reason AS reason, COUNT(*) AS count").
		Where("organization_id = ? AND removed_at IS NOT NULL", caller.OrganizationID)
	if from != nil {
		query = query.Where("removed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("removed_at <= ?", *to)
	}

	reasons := []ReasonCount{}
	if err := query.Group("removed_reason").Order("count DESC, reason").Scan(&reasons).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to compute removal reasons", err))
		return
	}
	c.JSON(http.StatusOK, reasons)
}

// RunHours returns run-hour totals per saw, counting run logs of
// installations that started inside the range
// @Summary Run hours per saw
// @Tags stats
// @Produce json
// @Param from query string false "Installed at or after (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Installed at or before; a bare date includes the whole day"
// @Success 200 {array} SawHours
// @Security BearerAuth
// @Router /stats/run-hours [get]
func (h *Handler) RunHours(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	from, to, err := daterange.Parse(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	query := h.db.Table("blade_installs AS i").
		Select("s.id AS saw_id, s.name AS saw_name, "+
			"COALESCE(SUM(r.hours), 0) AS hours, "+
			"COUNT(r.id) AS run_logs, "+
			"COUNT(DISTINCT i.id) AS installs").
		Joins("JOIN saws s ON s.id = i.saw_id").
		Joins("LEFT JOIN blade_run_logs r ON r.install_id = i.id").
		Where("i.organization_id = ?", caller.OrganizationID)
	if from != nil {
		query = query.Where("i.installed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("i.installed_at <= ?", *to)
	}

	totals := []SawHours{}
	if err := query.Group("s.id, s.name").Order("hours DESC, s.name").Scan(&totals).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to compute run hours", err))
		return
	}
	c.JSON(http.StatusOK, totals)
}

// RegisterRoutes registers stats routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/summary", h.Summary)
	rg.GET("/removal-reasons", h.RemovalReasons)
	rg.GET("/run-hours", h.RunHours)
}
