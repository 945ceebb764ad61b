// Package installs manages which blade is mounted on which saw.
//
// Every transition (install, uninstall, swap, move) runs in one transaction
// that locks the saw row and then the blade rows in ascending id order, so
// concurrent operations on the same saw or blade are serialized. Install also
// locks the blade it displaces, which keeps two installs that relocate each
// other's blades from deadlocking on the installation rows. The partial unique indexes on
// blade_installs back this up at the datastore: a saw and a blade each have at
// most one installation with removed_at IS NULL.
package installs

import (
	"context"
	"strings"
	"time"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// RelocatedReason is the removal reason written when install moves a blade
// off another saw.
const RelocatedReason = "Flyttet"

// CodeReplaceReasonRequired marks the bad request returned when install would
// displace a mounted blade without a reason.
const CodeReplaceReasonRequired = "replace_reason_required"

const (
	OutcomeChanged  = "changed"
	OutcomeNoChange = "no_change"
)

// Recorder observes completed lifecycle operations
type Recorder interface {
	Transition(operation, outcome string)
}

// Manager applies lifecycle transitions to the installation store
type Manager struct {
	db       *gorm.DB
	now      func() time.Time
	recorder Recorder
}

// Option configures a Manager
type Option func(*Manager)

// WithClock overrides the time source used for installed_at/removed_at
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRecorder reports every operation outcome to r
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// NewManager creates a lifecycle manager over db
func NewManager(db *gorm.DB, opts ...Option) *Manager {
	m := &Manager{db: db, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// InstallOptions are the optional arguments of Install
type InstallOptions struct {
	Side          models.BladeSide
	Note          string
	ReplaceReason string
	ReplaceNote   string
}

// InstallResult is returned by Install and Move. Replaced is the closed
// installation of the blade that was on the target saw; Relocated is the
// closed installation of this blade on its previous saw.
type InstallResult struct {
	NoChange  bool         `json:"no_change"`
	Installed *InstallView `json:"installed,omitempty"`
	Replaced  *InstallView `json:"replaced,omitempty"`
	Relocated *InstallView `json:"relocated,omitempty"`
}

// UninstallResult is returned by Uninstall
type UninstallResult struct {
	NoChange bool         `json:"no_change"`
	Removed  *InstallView `json:"removed,omitempty"`
}

// SwapResult is returned by Swap. Removed is nil when the saw was empty.
type SwapResult struct {
	Removed   *InstallView `json:"removed,omitempty"`
	Installed *InstallView `json:"installed"`
}

// Install mounts bladeID on sawID.
//
// If the blade is already the saw's current blade nothing is written and
// NoChange is set. If the saw holds another blade, ReplaceReason is required
// and that installation is closed with it. If the blade is mounted on another
// saw, that installation is closed with reason "Flyttet".
func (m *Manager) Install(ctx context.Context, caller auth.Tenant, sawID, bladeID uint, opts InstallOptions) (*InstallResult, error) {
	if !opts.Side.Valid() {
		return nil, m.fail("install", apierr.BadRequest("Side must be Venstre, Høyre or empty"))
	}
	replaceReason := strings.TrimSpace(opts.ReplaceReason)

	var result *InstallResult
	err := m.transaction(ctx, func(tx *gorm.DB) error {
		saw, err := LockSaw(tx, caller.OrganizationID, sawID)
		if err != nil {
			return err
		}

		// The mounted blade's row is locked too, since its installation
		// may be closed here while another install relocates it.
		mounted, err := CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil {
			return err
		}
		var others []uint
		if mounted != nil {
			others = append(others, mounted.BladeID)
		}
		blade, err := lockBlades(tx, caller.OrganizationID, bladeID, others...)
		if err != nil {
			return err
		}

		sawCurrent, err := CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil {
			return err
		}
		if sawCurrent != nil && sawCurrent.BladeID == blade.ID {
			result = &InstallResult{NoChange: true}
			return nil
		}
		if sawCurrent != nil && replaceReason == "" {
			return apierr.BadRequest("A reason is required to replace the mounted blade").WithCode(CodeReplaceReasonRequired)
		}
		if err := ensureNotInService(tx, caller.OrganizationID, blade.ID); err != nil {
			return err
		}

		bladeCurrent, err := CurrentByBlade(tx, caller.OrganizationID, blade.ID)
		if err != nil {
			return err
		}

		now := m.now()
		result = &InstallResult{}

		if sawCurrent != nil {
			closed, err := closeInstall(tx, sawCurrent, now, caller.UserID, replaceReason, opts.ReplaceNote)
			if err != nil {
				return err
			}
			if closed {
				result.Replaced = viewOf(sawCurrent)
			}
		}

		if bladeCurrent != nil && bladeCurrent.SawID != saw.ID {
			closed, err := closeInstall(tx, bladeCurrent, now, caller.UserID, RelocatedReason, "Flyttet til "+saw.Name)
			if err != nil {
				return err
			}
			if closed {
				result.Relocated = viewOf(bladeCurrent)
			}
		}

		side := opts.Side
		if side == models.BladeSideNone {
			side = blade.Side
		}
		install := models.BladeInstall{
			OrganizationID: caller.OrganizationID,
			SawID:          saw.ID,
			BladeID:        blade.ID,
			Side:           side,
			Note:           opts.Note,
			InstalledAt:    now,
			InstalledByID:  caller.UserID,
		}
		if err := tx.Create(&install).Error; err != nil {
			return err
		}
		install.Saw = *saw
		install.Blade = *blade
		result.Installed = viewOf(&install)
		return nil
	})
	if err != nil {
		return nil, m.fail("install", err)
	}

	m.done(ctx, "install", result.NoChange, func(e *zerolog.Event) *zerolog.Event {
		return e.Uint("saw_id", sawID).Uint("blade_id", bladeID).
			Bool("replaced", result.Replaced != nil).
			Bool("relocated", result.Relocated != nil)
	})
	return result, nil
}

// Uninstall closes the saw's current installation. An empty saw, including
// one emptied by a concurrent call, is reported as NoChange.
func (m *Manager) Uninstall(ctx context.Context, caller auth.Tenant, sawID uint, removedReason, removedNote string) (*UninstallResult, error) {
	reason := strings.TrimSpace(removedReason)
	if reason == "" {
		return nil, m.fail("uninstall", apierr.BadRequest("A removal reason is required"))
	}

	var result *UninstallResult
	err := m.transaction(ctx, func(tx *gorm.DB) error {
		saw, err := LockSaw(tx, caller.OrganizationID, sawID)
		if err != nil {
			return err
		}

		current, err := CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil {
			return err
		}
		if current == nil {
			result = &UninstallResult{NoChange: true}
			return nil
		}

		closed, err := closeInstall(tx, current, m.now(), caller.UserID, reason, removedNote)
		if err != nil {
			return err
		}
		if !closed {
			result = &UninstallResult{NoChange: true}
			return nil
		}
		current.Saw = *saw
		result = &UninstallResult{Removed: viewOf(current)}
		return nil
	})
	if err != nil {
		return nil, m.fail("uninstall", err)
	}

	m.done(ctx, "uninstall", result.NoChange, func(e *zerolog.Event) *zerolog.Event {
		return e.Uint("saw_id", sawID).Str("reason", reason)
	})
	return result, nil
}

// Swap replaces whatever is on sawID with newBladeID. Unlike Install it always
// requires a removal reason and refuses, with a conflict, a blade that is
// mounted on another saw.
func (m *Manager) Swap(ctx context.Context, caller auth.Tenant, sawID, newBladeID uint, removedReason, removedNote string) (*SwapResult, error) {
	reason := strings.TrimSpace(removedReason)
	if reason == "" {
		return nil, m.fail("swap", apierr.BadRequest("A removal reason is required"))
	}

	var result *SwapResult
	err := m.transaction(ctx, func(tx *gorm.DB) error {
		saw, err := LockSaw(tx, caller.OrganizationID, sawID)
		if err != nil {
			return err
		}
		blade, err := LockBlade(tx, caller.OrganizationID, newBladeID)
		if err != nil {
			return err
		}

		sawCurrent, err := CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil {
			return err
		}
		if sawCurrent != nil && sawCurrent.BladeID == blade.ID {
			return apierr.BadRequest("Blade is already mounted on this saw")
		}

		bladeCurrent, err := CurrentByBlade(tx, caller.OrganizationID, blade.ID)
		if err != nil {
			return err
		}
		if bladeCurrent != nil {
			return apierr.Conflict("Blade " + blade.IDNummer + " is mounted on " + bladeCurrent.Saw.Name + "; remove it there first")
		}
		if err := ensureNotInService(tx, caller.OrganizationID, blade.ID); err != nil {
			return err
		}

		now := m.now()
		result = &SwapResult{}

		if sawCurrent != nil {
			closed, err := closeInstall(tx, sawCurrent, now, caller.UserID, reason, removedNote)
			if err != nil {
				return err
			}
			if closed {
				result.Removed = viewOf(sawCurrent)
			}
		}

		install := models.BladeInstall{
			OrganizationID: caller.OrganizationID,
			SawID:          saw.ID,
			BladeID:        blade.ID,
			Side:           blade.Side,
			InstalledAt:    now,
			InstalledByID:  caller.UserID,
		}
		if err := tx.Create(&install).Error; err != nil {
			return err
		}
		install.Saw = *saw
		install.Blade = *blade
		result.Installed = viewOf(&install)
		return nil
	})
	if err != nil {
		return nil, m.fail("swap", err)
	}

	m.done(ctx, "swap", false, func(e *zerolog.Event) *zerolog.Event {
		return e.Uint("saw_id", sawID).Uint("blade_id", newBladeID).Str("reason", reason)
	})
	return result, nil
}

// Move mounts bladeID on toSawID, closing its installation on whatever saw it
// is on now. It behaves exactly like Install; fromSawID is only recorded in
// the log.
func (m *Manager) Move(ctx context.Context, caller auth.Tenant, bladeID uint, fromSawID *uint, toSawID uint, replaceReason, replaceNote string) (*InstallResult, error) {
	if fromSawID != nil {
		zerolog.Ctx(ctx).Debug().Uint("blade_id", bladeID).Uint("from_saw_id", *fromSawID).Uint("to_saw_id", toSawID).Msg("moving blade")
	}
	return m.Install(ctx, caller, toSawID, bladeID, InstallOptions{
		ReplaceReason: replaceReason,
		ReplaceNote:   replaceNote,
	})
}

// CurrentOnSaw returns the saw's current installation, or nil if it is empty
func (m *Manager) CurrentOnSaw(ctx context.Context, caller auth.Tenant, sawID uint) (*InstallView, error) {
	var view *InstallView
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		saw, err := findSaw(tx, caller.OrganizationID, sawID)
		if err != nil {
			return err
		}
		current, err := CurrentBySaw(tx, caller.OrganizationID, saw.ID)
		if err != nil || current == nil {
			return err
		}
		current.Saw = *saw
		view = viewOf(current)
		return nil
	})
	if err != nil {
		return nil, database.Classify(err, "Saw not found", "")
	}
	return view, nil
}

// CurrentForBlade returns the blade's current installation, or nil if it is not mounted
func (m *Manager) CurrentForBlade(ctx context.Context, caller auth.Tenant, bladeID uint) (*InstallView, error) {
	var view *InstallView
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blade, err := findBlade(tx, caller.OrganizationID, bladeID)
		if err != nil {
			return err
		}
		current, err := CurrentByBlade(tx, caller.OrganizationID, blade.ID)
		if err != nil || current == nil {
			return err
		}
		view = viewOf(current)
		return nil
	})
	if err != nil {
		return nil, database.Classify(err, "Blade not found", "")
	}
	return view, nil
}

func (m *Manager) transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := m.db.WithContext(ctx).Transaction(fn)
	return database.Classify(err, "Not found", "Saw or blade already has a current installation")
}

func (m *Manager) fail(operation string, err error) error {
	if m.recorder != nil {
		m.recorder.Transition(operation, string(apierr.KindOf(err)))
	}
	return err
}

func (m *Manager) done(ctx context.Context, operation string, noChange bool, fields func(*zerolog.Event) *zerolog.Event) {
	outcome := OutcomeChanged
	if noChange {
		outcome = OutcomeNoChange
	}
	if m.recorder != nil {
		m.recorder.Transition(operation, outcome)
	}
	fields(zerolog.Ctx(ctx).Info().Str("operation", operation).Str("outcome", outcome)).Msg("blade lifecycle")
}
