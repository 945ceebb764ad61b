package installs

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpdateFields holds the editable fields of an installation. Nil fields are
// left unchanged.
type UpdateFields struct {
	Side          *models.BladeSide
	Note          *string
	InstalledAt   *time.Time
	RemovedAt     *time.Time
	RemovedReason *string
	RemovedNote   *string
	// ClearRemovedAt asks to reopen a closed installation. It is always
	// refused; a blade goes back on a saw through Install.
	ClearRemovedAt bool
}

// HistoryFilter narrows History. Zero values mean no restriction.
type HistoryFilter struct {
	SawID       *uint
	BladeID     *uint
	CurrentOnly bool
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

const (
	defaultHistoryLimit = 100
	maxHistoryLimit     = 1000
)

// Update edits an installation in place. Timestamps must stay ordered, a
// closed installation keeps a removal reason, and a closed installation can
// never be reopened.
func (m *Manager) Update(ctx context.Context, caller auth.Tenant, installID uint, fields UpdateFields) (*InstallView, error) {
	if fields.ClearRemovedAt {
		return nil, m.fail("update", apierr.BadRequest("A removed installation cannot be reopened; install the blade again instead"))
	}
	if fields.Side != nil && !fields.Side.Valid() {
		return nil, m.fail("update", apierr.BadRequest("Side must be Venstre, Høyre or empty"))
	}

	var view *InstallView
	err := m.transaction(ctx, func(tx *gorm.DB) error {
		install, err := lockInstall(tx, caller.OrganizationID, installID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if fields.Side != nil {
			updates["side"] = *fields.Side
			install.Side = *fields.Side
		}
		if fields.Note != nil {
			updates["note"] = *fields.Note
			install.Note = *fields.Note
		}
		if fields.InstalledAt != nil {
			updates["installed_at"] = *fields.InstalledAt
			install.InstalledAt = *fields.InstalledAt
		}
		if fields.RemovedNote != nil {
			updates["removed_note"] = *fields.RemovedNote
			install.RemovedNote = *fields.RemovedNote
		}
		if fields.RemovedReason != nil {
			reason := strings.TrimSpace(*fields.RemovedReason)
			updates["removed_reason"] = reason
			install.RemovedReason = reason
		}
		if fields.RemovedAt != nil {
			if install.Current() {
				updates["removed_by_id"] = caller.UserID
				byID := caller.UserID
				install.RemovedByID = &byID
			}
			updates["removed_at"] = *fields.RemovedAt
			removedAt := *fields.RemovedAt
			install.RemovedAt = &removedAt
		}

		if install.RemovedAt != nil {
			if install.RemovedAt.Before(install.InstalledAt) {
				return apierr.BadRequest("removed_at cannot be before installed_at")
			}
			if install.RemovedReason == "" {
				return apierr.BadRequest("A removal reason is required for a removed installation")
			}
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.BladeInstall{}).Where("id = ?", install.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		view = viewOf(install)
		return nil
	})
	if err != nil {
		return nil, m.fail("update", err)
	}

	m.done(ctx, "update", false, func(e *zerolog.Event) *zerolog.Event {
		return e.Uint("install_id", installID)
	})
	return view, nil
}

// Delete removes an installation together with its run logs
func (m *Manager) Delete(ctx context.Context, caller auth.Tenant, installID uint) error {
	var runLogs int64
	err := m.transaction(ctx, func(tx *gorm.DB) error {
		install, err := lockInstall(tx, caller.OrganizationID, installID)
		if err != nil {
			return err
		}
		result := tx.Where("install_id = ?", install.ID).Delete(&models.BladeRunLog{})
		if result.Error != nil {
			return result.Error
		}
		runLogs = result.RowsAffected
		return tx.Delete(&models.BladeInstall{}, install.ID).Error
	})
	if err != nil {
		return m.fail("delete", err)
	}

	m.done(ctx, "delete", false, func(e *zerolog.Event) *zerolog.Event {
		return e.Uint("install_id", installID).Int64("run_logs_deleted", runLogs)
	})
	return nil
}

// Get returns one installation of the caller's organization
func (m *Manager) Get(ctx context.Context, caller auth.Tenant, installID uint) (*InstallView, error) {
	install, err := loadInstall(m.db.WithContext(ctx), caller.OrganizationID, installID)
	if err != nil {
		return nil, database.Classify(err, "Installation not found", "")
	}
	return viewOf(install), nil
}

// History lists installations newest first, along with the total matching
// the filter before paging.
func (m *Manager) History(ctx context.Context, caller auth.Tenant, filter HistoryFilter) ([]InstallView, int64, error) {
	query := m.db.WithContext(ctx).Model(&models.BladeInstall{}).
		Where("organization_id = ?", caller.OrganizationID)
	if filter.SawID != nil {
		query = query.Where("saw_id = ?", *filter.SawID)
	}
	if filter.BladeID != nil {
		query = query.Where("blade_id = ?", *filter.BladeID)
	}
	if filter.CurrentOnly {
		query = query.Where("removed_at IS NULL")
	}
	if filter.From != nil {
		query = query.Where("installed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("installed_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Classify(err, "", "")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var installs []models.BladeInstall
	err := query.
		Preload("Saw", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order("installed_at DESC, id DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&installs).Error
	if err != nil {
		return nil, 0, database.Classify(err, "", "")
	}

	views := make([]InstallView, len(installs))
	for i := range installs {
		views[i] = *viewOf(&installs[i])
	}
	return views, total, nil
}

func lockInstall(tx *gorm.DB, orgID, installID uint) (*models.BladeInstall, error) {
	return loadInstall(tx.Clauses(clause.Locking{Strength: "UPDATE"}), orgID, installID)
}

func loadInstall(tx *gorm.DB, orgID, installID uint) (*models.BladeInstall, error) {
	var install models.BladeInstall
	err := tx.Preload("Saw", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("id = ? AND organization_id = ?", installID, orgID).
		First(&install).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Installation not found")
		}
		return nil, err
	}
	return &install, nil
}
