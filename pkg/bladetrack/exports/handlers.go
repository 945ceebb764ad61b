package exports

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/daterange"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Handler handles import/export requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new import/export handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ExportInstall is one installation in the history export
type ExportInstall struct {
	Saw           string     `json:"saw"`
	IDNummer      string     `json:"id_nummer"`
	Side          string     `json:"side"`
	Note          string     `json:"note"`
	InstalledAt   time.Time  `json:"installed_at"`
	InstalledBy   string     `json:"installed_by"`
	RemovedAt     *time.Time `json:"removed_at"`
	RemovedBy     string     `json:"removed_by,omitempty"`
	RemovedReason string     `json:"removed_reason,omitempty"`
	RemovedNote   string     `json:"removed_note,omitempty"`
	HoursSawed    float64    `json:"hours_sawed"`
	RunLogs       int        `json:"run_logs"`
}

// ImportBlades creates blades from a JSON list. Serials that already exist in
// the organization, or repeat within the list, are skipped.
// @Summary Bulk import blades
// @Tags exports
// @Accept json
// @Produce json
// @Param request body ImportRequest true "Blades"
// @Success 200 {object} ImportResult
// @Security BearerAuth
// @Router /import/blades [post]
func (h *Handler) ImportBlades(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierr.Respond(c, apierr.BadRequest(err.Error()))
		return
	}

	result := ImportBlades(c.Request.Context(), h.db, caller.OrganizationID, req.Blades)
	zerolog.Ctx(c.Request.Context()).Info().
		Uint("organization_id", caller.OrganizationID).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Msg("blades imported")
	c.JSON(http.StatusOK, result)
}

// ExportInstalls exports the installation history with run-hour totals
// @Summary Export installation history
// @Tags exports
// @Produce json
// @Param from query string false "Installed at or after (RFC 3339 or YYYY-MM-DD)"
// @Param to query string false "Installed at or before; a bare date includes the whole day"
// @Param download query bool false "Send as attachment"
// @Success 200 {array} ExportInstall
// @Security BearerAuth
// @Router /export/installs [get]
func (h *Handler) ExportInstalls(c *gin.Context) {
	caller, err := auth.GetTenant(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}

	unscoped := func(db *gorm.DB) *gorm.DB { return db.Unscoped() }
	query := h.db.Preload("Saw", unscoped).
		Preload("Blade", unscoped).
		Preload("RunLogs").
		Where("organization_id = ?", caller.OrganizationID)

	from, to, err := daterange.Parse(c)
	if err != nil {
		apierr.Respond(c, err)
		return
	}
	if from != nil {
		query = query.Where("installed_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("installed_at <= ?", *to)
	}

	var installs []models.BladeInstall
	if err := query.Order("installed_at, id").Find(&installs).Error; err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch installations", err))
		return
	}

	names, err := h.userNames(installs)
	if err != nil {
		apierr.Respond(c, apierr.Internal("Failed to fetch users", err))
		return
	}

	rows := make([]ExportInstall, len(installs))
	for i, in := range installs {
		row := ExportInstall{
			Saw:           in.Saw.Name,
			IDNummer:      in.Blade.IDNummer,
			Side:          string(in.Side),
			Note:          in.Note,
			InstalledAt:   in.InstalledAt.UTC(),
			InstalledBy:   names[in.InstalledByID],
			RemovedReason: in.RemovedReason,
			RemovedNote:   in.RemovedNote,
			RunLogs:       len(in.RunLogs),
		}
		if in.RemovedAt != nil {
			removed := in.RemovedAt.UTC()
			row.RemovedAt = &removed
		}
		if in.RemovedByID != nil {
			row.RemovedBy = names[*in.RemovedByID]
		}
		for _, rl := range in.RunLogs {
			if rl.Hours != nil {
				row.HoursSawed += *rl.Hours
			}
		}
		rows[i] = row
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=bladetrack-installs.json")
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) userNames(installs []models.BladeInstall) (map[uint]string, error) {
	ids := make(map[uint]struct{})
	for _, in := range installs {
		ids[in.InstalledByID] = struct{}{}
		if in.RemovedByID != nil {
			ids[*in.RemovedByID] = struct{}{}
		}
	}
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	list := make([]uint, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	var users []models.User
	if err := h.db.Unscoped().Where("id IN ?", list).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

// RegisterRoutes registers import/export routes on a group already behind TenancyGuard
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/import/blades", h.ImportBlades)
	rg.GET("/export/installs", h.ExportInstalls)
}
