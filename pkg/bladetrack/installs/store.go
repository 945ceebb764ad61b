package installs

import (
	"errors"
	"sort"
	"time"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InstallView is the projection of an installation returned to clients
type InstallView struct {
	ID            uint             `json:"id"`
	SawID         uint             `json:"saw_id"`
	SawName       string           `json:"saw_name,omitempty"`
	BladeID       uint             `json:"blade_id"`
	IDNummer      string           `json:"id_nummer,omitempty"`
	Side          models.BladeSide `json:"side"`
	Note          string           `json:"note"`
	InstalledAt   time.Time        `json:"installed_at"`
	InstalledByID uint             `json:"installed_by_id"`
	RemovedAt     *time.Time       `json:"removed_at"`
	RemovedByID   *uint            `json:"removed_by_id"`
	RemovedReason string           `json:"removed_reason,omitempty"`
	RemovedNote   string           `json:"removed_note,omitempty"`
}

func viewOf(i *models.BladeInstall) *InstallView {
	return &InstallView{
		ID:            i.ID,
		SawID:         i.SawID,
		SawName:       i.Saw.Name,
		BladeID:       i.BladeID,
		IDNummer:      i.Blade.IDNummer,
		Side:          i.Side,
		Note:          i.Note,
		InstalledAt:   i.InstalledAt,
		InstalledByID: i.InstalledByID,
		RemovedAt:     i.RemovedAt,
		RemovedByID:   i.RemovedByID,
		RemovedReason: i.RemovedReason,
		RemovedNote:   i.RemovedNote,
	}
}

// LockSaw loads the saw for update. A saw outside orgID is reported as not found.
func LockSaw(tx *gorm.DB, orgID, sawID uint) (*models.Saw, error) {
	return findSaw(tx.Clauses(clause.Locking{Strength: "UPDATE"}), orgID, sawID)
}

// LockBlade loads the blade for update. Callers that also lock a saw must
// lock the saw first.
func LockBlade(tx *gorm.DB, orgID, bladeID uint) (*models.SawBlade, error) {
	return findBlade(tx.Clauses(clause.Locking{Strength: "UPDATE"}), orgID, bladeID)
}

// lockBlades locks the target blade together with the other blades whose
// installations the caller is about to close, in ascending id order. Every
// transaction that closes more than one installation holds the blade lock of
// each row it touches, so two of them never wait on each other's rows. A
// missing target is NotFound; the others are locked only if they still exist.
func lockBlades(tx *gorm.DB, orgID, target uint, others ...uint) (*models.SawBlade, error) {
	ids := append([]uint{target}, others...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var blade *models.SawBlade
	for i, id := range ids {
		if i > 0 && ids[i-1] == id {
			continue
		}
		if id == target {
			b, err := LockBlade(tx, orgID, id)
			if err != nil {
				return nil, err
			}
			blade = b
			continue
		}
		var other models.SawBlade
		err := tx.Unscoped().Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND organization_id = ?", id, orgID).
			Limit(1).
			Find(&other).Error
		if err != nil {
			return nil, err
		}
	}
	return blade, nil
}

func findSaw(tx *gorm.DB, orgID, sawID uint) (*models.Saw, error) {
	var saw models.Saw
	if err := tx.Where("id = ? AND organization_id = ?", sawID, orgID).First(&saw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Saw not found")
		}
		return nil, err
	}
	return &saw, nil
}

func findBlade(tx *gorm.DB, orgID, bladeID uint) (*models.SawBlade, error) {
	var blade models.SawBlade
	if err := tx.Where("id = ? AND organization_id = ?", bladeID, orgID).First(&blade).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("Blade not found")
		}
		return nil, err
	}
	return &blade, nil
}

// CurrentBySaw returns the open installation on sawID, or nil
func CurrentBySaw(tx *gorm.DB, orgID, sawID uint) (*models.BladeInstall, error) {
	return current(tx, "saw_id = ?", orgID, sawID)
}

// CurrentByBlade returns the open installation of bladeID, or nil
func CurrentByBlade(tx *gorm.DB, orgID, bladeID uint) (*models.BladeInstall, error) {
	return current(tx, "blade_id = ?", orgID, bladeID)
}

func current(tx *gorm.DB, cond string, orgID, id uint) (*models.BladeInstall, error) {
	var installs []models.BladeInstall
	err := tx.Preload("Saw", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Blade", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("organization_id = ? AND removed_at IS NULL", orgID).
		Where(cond, id).
		Limit(1).
		Find(&installs).Error
	if err != nil {
		return nil, err
	}
	if len(installs) == 0 {
		return nil, nil
	}
	return &installs[0], nil
}

// closeInstall sets the removal fields on an open installation. It reports
// false, without error, when another transaction closed the row first.
func closeInstall(tx *gorm.DB, install *models.BladeInstall, at time.Time, byID uint, reason, note string) (bool, error) {
	result := tx.Model(&models.BladeInstall{}).
		Where("id = ? AND removed_at IS NULL", install.ID).
		Updates(map[string]interface{}{
			"removed_at":     at,
			"removed_by_id":  byID,
			"removed_reason": reason,
			"removed_note":   note,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	install.RemovedAt = &at
	install.RemovedByID = &byID
	install.RemovedReason = reason
	install.RemovedNote = note
	return true, nil
}

// InService reports whether the blade has an open service cycle
func InService(tx *gorm.DB, orgID, bladeID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.BladeService{}).
		Where("organization_id = ? AND blade_id = ? AND returned_at IS NULL", orgID, bladeID).
		Count(&count).Error
	return count > 0, err
}

func ensureNotInService(tx *gorm.DB, orgID, bladeID uint) error {
	away, err := InService(tx, orgID, bladeID)
	if err != nil {
		return err
	}
	if away {
		return apierr.Conflict("Blade is at service and cannot be mounted")
	}
	return nil
}
