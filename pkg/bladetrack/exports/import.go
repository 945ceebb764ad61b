package exports

import (
	"context"
	"strconv"
	"strings"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// ImportBlade is one blade in a bulk import
type ImportBlade struct {
	IDNummer     string `json:"id_nummer" yaml:"id_nummer"`
	BladeType    string `json:"blade_type" yaml:"blade_type"` // Catalogue name, created when missing
	Side         string `json:"side" yaml:"side"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Note         string `json:"note" yaml:"note"`
}

// ImportSaw is one saw in a bulk import
type ImportSaw struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ImportRequest represents a bulk blade import
type ImportRequest struct {
	Blades []ImportBlade `json:"blades" binding:"required,max=5000"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (r *ImportResult) fail(kind string, i int, msg string) {
	r.Errors = append(r.Errors, kind+" "+strconv.Itoa(i)+": "+msg)
	r.Skipped++
}

// ImportBlades creates blades in orgID. Serials that already exist in the
// organization, or repeat within the list, are skipped. Datastore failures
// are logged and reported per entry without their cause.
func ImportBlades(ctx context.Context, db *gorm.DB, orgID uint, blades []ImportBlade) ImportResult {
	log := zerolog.Ctx(ctx)
	db = db.WithContext(ctx)
	result := ImportResult{Errors: []string{}}
	types := make(map[string]uint)
	seen := make(map[string]bool)

	for i, in := range blades {
		serial := strings.TrimSpace(in.IDNummer)
		if serial == "" {
			result.fail("blade", i, "id_nummer is required")
			continue
		}
		side := models.BladeSide(strings.TrimSpace(in.Side))
		if !side.Valid() {
			result.fail("blade", i, "invalid side")
			continue
		}
		if seen[serial] {
			result.Skipped++
			continue
		}
		seen[serial] = true

		var exists int64
		err := db.Model(&models.SawBlade{}).
			Where("organization_id = ? AND id_nummer = ?", orgID, serial).
			Count(&exists).Error
		if err != nil {
			log.Error().Err(err).Str("id_nummer", serial).Msg("import: blade lookup failed")
			result.fail("blade", i, "failed to check existing blades")
			continue
		}
		if exists > 0 {
			result.Skipped++
			continue
		}

		blade := models.SawBlade{
			OrganizationID: orgID,
			IDNummer:       serial,
			Side:           side,
			Manufacturer:   strings.TrimSpace(in.Manufacturer),
			Note:           in.Note,
		}
		if name := strings.TrimSpace(in.BladeType); name != "" {
			typeID, err := bladeType(db, orgID, name, types)
			if err != nil {
				log.Error().Err(err).Str("blade_type", name).Msg("import: blade type lookup failed")
				result.fail("blade", i, "failed to resolve blade type")
				continue
			}
			blade.BladeTypeID = &typeID
		}

		if err := db.Create(&blade).Error; err != nil {
			if apierr.Is(database.Classify(err, "", ""), apierr.KindConflict) {
				result.Skipped++
				continue
			}
			log.Error().Err(err).Str("id_nummer", serial).Msg("import: blade create failed")
			result.fail("blade", i, "failed to create blade")
			continue
		}
		result.Imported++
	}
	return result
}

// ImportSaws creates saws in orgID, skipping names the organization already
// uses.
func ImportSaws(ctx context.Context, db *gorm.DB, orgID uint, saws []ImportSaw) ImportResult {
	log := zerolog.Ctx(ctx)
	db = db.WithContext(ctx)
	result := ImportResult{Errors: []string{}}

	for i, in := range saws {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			result.fail("saw", i, "name is required")
			continue
		}

		var exists int64
		err := db.Model(&models.Saw{}).
			Where("organization_id = ? AND name = ?", orgID, name).
			Count(&exists).Error
		if err != nil {
			log.Error().Err(err).Str("saw", name).Msg("import: saw lookup failed")
			result.fail("saw", i, "failed to check existing saws")
			continue
		}
		if exists > 0 {
			result.Skipped++
			continue
		}

		saw := models.Saw{OrganizationID: orgID, Name: name, Type: strings.TrimSpace(in.Type), Active: true}
		if err := db.Create(&saw).Error; err != nil {
			log.Error().Err(err).Str("saw", name).Msg("import: saw create failed")
			result.fail("saw", i, "failed to create saw")
			continue
		}
		result.Imported++
	}
	return result
}

// bladeType finds a catalogue entry by name, case-insensitively, creating it
// when missing
func bladeType(db *gorm.DB, orgID uint, name string, cache map[string]uint) (uint, error) {
	key := strings.ToLower(name)
	if id, ok := cache[key]; ok {
		return id, nil
	}

	var bt models.BladeType
	err := db.Where("organization_id = ? AND LOWER(name) = ?", orgID, key).First(&bt).Error
	if database.IsNotFound(err) {
		bt = models.BladeType{OrganizationID: orgID, Name: name}
		err = db.Create(&bt).Error
	}
	if err != nil {
		return 0, err
	}
	cache[key] = bt.ID
	return bt.ID, nil
}
