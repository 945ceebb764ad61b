package installs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db      *gorm.DB
	manager *Manager
	rec     *recorder
	org     models.Organization
	caller  auth.Tenant
	clock   time.Time
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Transition(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, operation+":"+outcome)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	user := models.User{Email: "operator@example.com", Name: "Operator", Active: true, SystemRole: models.SystemRoleUser}
	require.NoError(t, db.Create(&user).Error)
	org := newOrg(t, db, "org1", user.ID)

	f := &fixture{
		db:     db,
		rec:    &recorder{},
		org:    org,
		caller: auth.Tenant{UserID: user.ID, OrganizationID: org.ID, Role: models.OrgRoleMember},
		clock:  time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC),
	}
	f.manager = NewManager(db, WithClock(f.now), WithRecorder(f.rec))
	return f
}

// now advances one minute per call so installs get distinct timestamps
func (f *fixture) now() time.Time {
	f.clock = f.clock.Add(time.Minute)
	return f.clock
}

func newOrg(t *testing.T, db *gorm.DB, slug string, userID uint) models.Organization {
	t.Helper()
	org := models.Organization{Name: slug, Slug: slug}
	require.NoError(t, db.Create(&org).Error)
	require.NoError(t, db.Create(&models.OrganizationMembership{OrganizationID: org.ID, UserID: userID, Role: models.OrgRoleMember}).Error)
	return org
}

func (f *fixture) saw(t *testing.T, name string) models.Saw {
	t.Helper()
	return createSaw(t, f.db, f.org.ID, name)
}

func (f *fixture) blade(t *testing.T, serial string) models.SawBlade {
	t.Helper()
	return createBlade(t, f.db, f.org.ID, serial)
}

func createSaw(t *testing.T, db *gorm.DB, orgID uint, name string) models.Saw {
	t.Helper()
	saw := models.Saw{OrganizationID: orgID, Name: name, Active: true}
	require.NoError(t, db.Create(&saw).Error)
	return saw
}

func createBlade(t *testing.T, db *gorm.DB, orgID uint, serial string) models.SawBlade {
	t.Helper()
	blade := models.SawBlade{OrganizationID: orgID, IDNummer: serial, Side: models.BladeSideLeft}
	require.NoError(t, db.Create(&blade).Error)
	return blade
}

func (f *fixture) install(t *testing.T, sawID, bladeID uint) *InstallResult {
	t.Helper()
	res, err := f.manager.Install(context.Background(), f.caller, sawID, bladeID, InstallOptions{ReplaceReason: "Sløv"})
	require.NoError(t, err)
	return res
}

func (f *fixture) countInstalls(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.BladeInstall{}).Count(&n).Error)
	return n
}

// assertSingleOccupancy checks that no saw and no blade has more than one
// open installation.
func (f *fixture) assertSingleOccupancy(t *testing.T) {
	t.Helper()
	for _, col := range []string{"saw_id", "blade_id"} {
		var dup []uint
		require.NoError(t, f.db.Model(&models.BladeInstall{}).
			Select(col).
			Where("removed_at IS NULL").
			Group(col).
			Having("COUNT(*) > 1").
			Pluck(col, &dup).Error)
		assert.Empty(t, dup, "more than one current installation per %s", col)
	}
}

func TestInstallOnEmptySaw(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")

	res := f.install(t, saw.ID, blade.ID)
	require.False(t, res.NoChange)
	require.NotNil(t, res.Installed)
	assert.Nil(t, res.Replaced)
	assert.Nil(t, res.Relocated)
	assert.Equal(t, saw.ID, res.Installed.SawID)
	assert.Equal(t, "B1", res.Installed.IDNummer)
	assert.Equal(t, models.BladeSideLeft, res.Installed.Side, "side defaults to the blade's side")
	assert.Nil(t, res.Installed.RemovedAt)
	assert.Equal(t, "install:changed", f.rec.last())

	current, err := f.manager.CurrentOnSaw(context.Background(), f.caller, saw.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, blade.ID, current.BladeID)
	assert.Equal(t, "B1", current.IDNummer)
}

func TestInstallSameBladeIsNoChange(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	f.install(t, saw.ID, blade.ID)

	var before models.BladeInstall
	require.NoError(t, f.db.First(&before).Error)

	res, err := f.manager.Install(context.Background(), f.caller, saw.ID, blade.ID, InstallOptions{})
	require.NoError(t, err)
	assert.True(t, res.NoChange)
	assert.Nil(t, res.Installed)
	assert.Equal(t, "install:no_change", f.rec.last())

	var after models.BladeInstall
	require.NoError(t, f.db.First(&after).Error)
	assert.Equal(t, int64(1), f.countInstalls(t))
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt, "no-op install must not write")
}

func TestInstallReplaceRequiresReason(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")
	f.install(t, saw.ID, b1.ID)

	_, err := f.manager.Install(context.Background(), f.caller, saw.ID, b2.ID, InstallOptions{ReplaceReason: "   "})
	require.Error(t, err)
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
	var apiErr *apierr.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeReplaceReasonRequired, apiErr.Code)
	assert.Equal(t, "install:bad_request", f.rec.last())

	current, err := f.manager.CurrentOnSaw(context.Background(), f.caller, saw.ID)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, current.BladeID)
	assert.Equal(t, int64(1), f.countInstalls(t))
}

func TestInstallReplacesWithReason(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")
	f.install(t, saw.ID, b1.ID)

	res, err := f.manager.Install(context.Background(), f.caller, saw.ID, b2.ID, InstallOptions{ReplaceReason: "Sløv", ReplaceNote: "dull after shift"})
	require.NoError(t, err)
	require.NotNil(t, res.Replaced)
	assert.Equal(t, b1.ID, res.Replaced.BladeID)
	assert.Equal(t, "Sløv", res.Replaced.RemovedReason)
	assert.Equal(t, "dull after shift", res.Replaced.RemovedNote)
	require.NotNil(t, res.Replaced.RemovedAt)
	assert.Equal(t, f.caller.UserID, *res.Replaced.RemovedByID)
	assert.Equal(t, b2.ID, res.Installed.BladeID)
	f.assertSingleOccupancy(t)
}

func TestInstallRelocatesSilently(t *testing.T) {
	f := newFixture(t)
	s1 := f.saw(t, "S1")
	s2 := f.saw(t, "S2")
	blade := f.blade(t, "B1")
	f.install(t, s1.ID, blade.ID)

	res, err := f.manager.Install(context.Background(), f.caller, s2.ID, blade.ID, InstallOptions{})
	require.NoError(t, err)
	require.NotNil(t, res.Relocated)
	assert.Equal(t, s1.ID, res.Relocated.SawID)
	assert.Equal(t, RelocatedReason, res.Relocated.RemovedReason)
	assert.Equal(t, "Flyttet til S2", res.Relocated.RemovedNote)
	assert.Equal(t, s2.ID, res.Installed.SawID)

	onS1, err := f.manager.CurrentOnSaw(context.Background(), f.caller, s1.ID)
	require.NoError(t, err)
	assert.Nil(t, onS1)
	f.assertSingleOccupancy(t)
}

func TestInstallBladeAtServiceConflicts(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	require.NoError(t, f.db.Create(&models.BladeService{
		OrganizationID: f.org.ID,
		BladeID:        blade.ID,
		Kind:           models.ServiceKindSharpening,
		SentAt:         f.now(),
		SentByID:       f.caller.UserID,
	}).Error)

	_, err := f.manager.Install(context.Background(), f.caller, saw.ID, blade.ID, InstallOptions{})
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))
	assert.Equal(t, int64(0), f.countInstalls(t))
}

func TestInstallRejectsUnknownSide(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")

	_, err := f.manager.Install(context.Background(), f.caller, saw.ID, blade.ID, InstallOptions{Side: "Midt"})
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)
	other := newOrg(t, f.db, "org2", f.caller.UserID)
	foreignSaw := createSaw(t, f.db, other.ID, "S9")
	foreignBlade := createBlade(t, f.db, other.ID, "B9")
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	ctx := context.Background()

	_, err := f.manager.Install(ctx, f.caller, foreignSaw.ID, blade.ID, InstallOptions{})
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = f.manager.Install(ctx, f.caller, saw.ID, foreignBlade.ID, InstallOptions{})
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = f.manager.Uninstall(ctx, f.caller, foreignSaw.ID, "Sløv", "")
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = f.manager.Swap(ctx, f.caller, foreignSaw.ID, blade.ID, "Sløv", "")
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = f.manager.CurrentOnSaw(ctx, f.caller, foreignSaw.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	_, err = f.manager.CurrentForBlade(ctx, f.caller, foreignBlade.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))

	otherCaller := auth.Tenant{UserID: f.caller.UserID, OrganizationID: other.ID}
	res, err := f.manager.Install(ctx, otherCaller, foreignSaw.ID, foreignBlade.ID, InstallOptions{})
	require.NoError(t, err)
	_, err = f.manager.Update(ctx, f.caller, res.Installed.ID, UpdateFields{Note: strPtr("x")})
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	err = f.manager.Delete(ctx, f.caller, res.Installed.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))

	views, total, err := f.manager.History(ctx, f.caller, HistoryFilter{})
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Zero(t, total)
}

func TestUninstall(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	ctx := context.Background()

	_, err := f.manager.Uninstall(ctx, f.caller, saw.ID, "", "")
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))

	res, err := f.manager.Uninstall(ctx, f.caller, saw.ID, "Sløv", "")
	require.NoError(t, err)
	assert.True(t, res.NoChange, "empty saw")

	f.install(t, saw.ID, blade.ID)
	res, err = f.manager.Uninstall(ctx, f.caller, saw.ID, "Sprekk", "crack near gullet")
	require.NoError(t, err)
	require.NotNil(t, res.Removed)
	assert.Equal(t, "Sprekk", res.Removed.RemovedReason)
	assert.Equal(t, "crack near gullet", res.Removed.RemovedNote)

	current, err := f.manager.CurrentForBlade(ctx, f.caller, blade.ID)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestSwapRequiresReasonEvenOnEmptySaw(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")

	_, err := f.manager.Swap(context.Background(), f.caller, saw.ID, blade.ID, "", "")
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
	assert.Equal(t, int64(0), f.countInstalls(t))

	res, err := f.manager.Swap(context.Background(), f.caller, saw.ID, blade.ID, "Ny", "")
	require.NoError(t, err)
	assert.Nil(t, res.Removed)
	assert.Equal(t, blade.ID, res.Installed.BladeID)
}

func TestSwapRejectsBladeMountedElsewhere(t *testing.T) {
	f := newFixture(t)
	s1 := f.saw(t, "S1")
	s2 := f.saw(t, "S2")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")
	first := f.install(t, s1.ID, b1.ID)
	second := f.install(t, s2.ID, b2.ID)

	_, err := f.manager.Swap(context.Background(), f.caller, s1.ID, b2.ID, "Sløv", "")
	assert.Equal(t, apierr.KindConflict, apierr.KindOf(err))

	for _, id := range []uint{first.Installed.ID, second.Installed.ID} {
		var install models.BladeInstall
		require.NoError(t, f.db.First(&install, id).Error)
		assert.True(t, install.Current(), "install %d must stay open", id)
	}
	assert.Equal(t, int64(2), f.countInstalls(t))
}

func TestSwapSameBladeIsBadRequest(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	f.install(t, saw.ID, blade.ID)

	_, err := f.manager.Swap(context.Background(), f.caller, saw.ID, blade.ID, "Sløv", "")
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
}

func TestSwapReplacesMountedBlade(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")
	f.install(t, saw.ID, b1.ID)

	res, err := f.manager.Swap(context.Background(), f.caller, saw.ID, b2.ID, "Sløv", "")
	require.NoError(t, err)
	require.NotNil(t, res.Removed)
	assert.Equal(t, b1.ID, res.Removed.BladeID)
	assert.Equal(t, "Sløv", res.Removed.RemovedReason)
	assert.Equal(t, b2.ID, res.Installed.BladeID)
	f.assertSingleOccupancy(t)
}

func TestMove(t *testing.T) {
	f := newFixture(t)
	s1 := f.saw(t, "S1")
	s2 := f.saw(t, "S2")
	blade := f.blade(t, "B1")
	f.install(t, s1.ID, blade.ID)

	// from_saw_id is advisory; a wrong value does not change the outcome
	wrong := s2.ID
	res, err := f.manager.Move(context.Background(), f.caller, blade.ID, &wrong, s2.ID, "", "")
	require.NoError(t, err)
	require.NotNil(t, res.Relocated)
	assert.Equal(t, s1.ID, res.Relocated.SawID)
	assert.Equal(t, s2.ID, res.Installed.SawID)

	res, err = f.manager.Move(context.Background(), f.caller, blade.ID, nil, s2.ID, "", "")
	require.NoError(t, err)
	assert.True(t, res.NoChange)
}

// Example scenario: org1 with saw S1 and blade B1.
func TestExampleScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.saw(t, "S1")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")

	res := f.install(t, s1.ID, b1.ID)
	require.NotNil(t, res.Installed)

	res = f.install(t, s1.ID, b1.ID)
	assert.True(t, res.NoChange)

	_, err := f.manager.Install(ctx, f.caller, s1.ID, b2.ID, InstallOptions{})
	assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))

	swapped, err := f.manager.Swap(ctx, f.caller, s1.ID, b2.ID, "Sløv", "")
	require.NoError(t, err)
	assert.Equal(t, b1.ID, swapped.Removed.BladeID)

	un, err := f.manager.Uninstall(ctx, f.caller, s1.ID, "Service", "")
	require.NoError(t, err)
	assert.Equal(t, b2.ID, un.Removed.BladeID)

	un, err = f.manager.Uninstall(ctx, f.caller, s1.ID, "Service", "")
	require.NoError(t, err)
	assert.True(t, un.NoChange)

	views, total, err := f.manager.History(ctx, f.caller, HistoryFilter{SawID: &s1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, b2.ID, views[0].BladeID, "newest first")
	assert.Equal(t, "Service", views[0].RemovedReason)
	assert.Equal(t, "Sløv", views[1].RemovedReason)
}

func TestConcurrentInstallsKeepSingleOccupancy(t *testing.T) {
	f := newFixture(t)
	saws := []models.Saw{f.saw(t, "S1"), f.saw(t, "S2"), f.saw(t, "S3")}
	var blades []models.SawBlade
	for i := 0; i < 6; i++ {
		blades = append(blades, f.blade(t, fmt.Sprintf("B%d", i)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			saw := saws[i%len(saws)]
			blade := blades[(i*7)%len(blades)]
			_, err := f.manager.Install(context.Background(), f.caller, saw.ID, blade.ID, InstallOptions{ReplaceReason: "Sløv"})
			if err != nil && !apierr.Is(err, apierr.KindConflict) {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, failures)
	f.assertSingleOccupancy(t)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	res := f.install(t, saw.ID, blade.ID)
	id := res.Installed.ID
	installedAt := res.Installed.InstalledAt

	t.Run("edits note and side", func(t *testing.T) {
		side := models.BladeSideRight
		view, err := f.manager.Update(ctx, f.caller, id, UpdateFields{Note: strPtr("re-tensioned"), Side: &side})
		require.NoError(t, err)
		assert.Equal(t, "re-tensioned", view.Note)
		assert.Equal(t, models.BladeSideRight, view.Side)
		assert.Nil(t, view.RemovedAt)
	})

	t.Run("closing requires reason", func(t *testing.T) {
		at := installedAt.Add(time.Hour)
		_, err := f.manager.Update(ctx, f.caller, id, UpdateFields{RemovedAt: &at})
		assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
	})

	t.Run("removed before installed", func(t *testing.T) {
		at := installedAt.Add(-time.Hour)
		_, err := f.manager.Update(ctx, f.caller, id, UpdateFields{RemovedAt: &at, RemovedReason: strPtr("Sløv")})
		assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
	})

	t.Run("closes with reason", func(t *testing.T) {
		at := installedAt.Add(time.Hour)
		view, err := f.manager.Update(ctx, f.caller, id, UpdateFields{RemovedAt: &at, RemovedReason: strPtr("Sløv")})
		require.NoError(t, err)
		require.NotNil(t, view.RemovedAt)
		assert.Equal(t, f.caller.UserID, *view.RemovedByID)

		current, err := f.manager.CurrentOnSaw(ctx, f.caller, saw.ID)
		require.NoError(t, err)
		assert.Nil(t, current)
	})

	t.Run("cannot reopen", func(t *testing.T) {
		_, err := f.manager.Update(ctx, f.caller, id, UpdateFields{ClearRemovedAt: true})
		assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))

		var install models.BladeInstall
		require.NoError(t, f.db.First(&install, id).Error)
		assert.False(t, install.Current())
	})

	t.Run("closed row keeps a reason", func(t *testing.T) {
		_, err := f.manager.Update(ctx, f.caller, id, UpdateFields{RemovedReason: strPtr("")})
		assert.Equal(t, apierr.KindBadRequest, apierr.KindOf(err))
	})

	t.Run("unknown install", func(t *testing.T) {
		_, err := f.manager.Update(ctx, f.caller, 9999, UpdateFields{Note: strPtr("x")})
		assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
	})
}

func TestDeleteCascadesRunLogs(t *testing.T) {
	f := newFixture(t)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	res := f.install(t, saw.ID, blade.ID)

	hours := 6.5
	for i := 0; i < 3; i++ {
		require.NoError(t, f.db.Create(&models.BladeRunLog{
			OrganizationID: f.org.ID,
			InstallID:      res.Installed.ID,
			CreatedByID:    f.caller.UserID,
			Hours:          &hours,
		}).Error)
	}

	require.NoError(t, f.manager.Delete(context.Background(), f.caller, res.Installed.ID))

	var logs int64
	require.NoError(t, f.db.Model(&models.BladeRunLog{}).Count(&logs).Error)
	assert.Zero(t, logs)
	assert.Zero(t, f.countInstalls(t))

	err := f.manager.Delete(context.Background(), f.caller, res.Installed.ID)
	assert.Equal(t, apierr.KindNotFound, apierr.KindOf(err))
}

func TestHistoryFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s1 := f.saw(t, "S1")
	s2 := f.saw(t, "S2")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")
	f.install(t, s1.ID, b1.ID)
	f.install(t, s1.ID, b2.ID)
	f.install(t, s2.ID, b1.ID)

	views, total, err := f.manager.History(ctx, f.caller, HistoryFilter{CurrentOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, views, 2)

	views, total, err = f.manager.History(ctx, f.caller, HistoryFilter{BladeID: &b1.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 1)
	assert.Equal(t, s2.ID, views[0].SawID)
}

func TestDatastoreUnavailableIsInternal(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: connection refused"))

	rec := &recorder{}
	m := NewManager(db, WithRecorder(rec))
	_, err = m.Install(context.Background(), auth.Tenant{UserID: 1, OrganizationID: 1}, 1, 1, InstallOptions{})
	require.Error(t, err)
	assert.Equal(t, apierr.KindInternal, apierr.KindOf(err))
	assert.Equal(t, "install:internal", rec.last())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func strPtr(s string) *string { return &s }
