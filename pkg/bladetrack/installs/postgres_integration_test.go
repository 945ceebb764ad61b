//go:build integration

package installs

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

func setupPostgres(t *testing.T, ctx context.Context) *fixture {
	t.Helper()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Open(database.Config{
		Driver:       database.DriverPostgres,
		DSN:          fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port()),
		MaxOpenConns: 20,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, models.AutoMigrate(db))

	user := models.User{Email: "operator@example.com", Name: "Operator", Active: true, SystemRole: models.SystemRoleUser}
	require.NoError(t, db.Create(&user).Error)
	org := newOrg(t, db, "org1", user.ID)

	// The fixture clock is not safe for concurrent use, so these tests run on
	// wall time.
	rec := &recorder{}
	return &fixture{
		db:      db,
		manager: NewManager(db, WithRecorder(rec)),
		rec:     rec,
		org:     org,
		caller:  auth.Tenant{UserID: user.ID, OrganizationID: org.ID, Role: models.OrgRoleMember},
	}
}

// holdInstallRow closes the installation inside a transaction that stays open,
// keeping its row locked until the returned commit func runs.
func holdInstallRow(t *testing.T, db *gorm.DB, installID uint) (commit func()) {
	t.Helper()
	tx := db.Begin()
	require.NoError(t, tx.Error)
	res := tx.Exec("UPDATE blade_installs SET removed_at = ?, removed_reason = ? WHERE id = ? AND removed_at IS NULL",
		time.Now(), "Service", installID)
	require.NoError(t, res.Error)
	require.Equal(t, int64(1), res.RowsAffected)
	return func() { require.NoError(t, tx.Commit().Error) }
}

// waitForLockWaiter blocks until another session is waiting on a row lock
func waitForLockWaiter(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.Eventually(t, func() bool {
		var n int64
		err := db.Raw("SELECT COUNT(*) FROM pg_stat_activity WHERE datname = current_database() AND wait_event_type = 'Lock'").
			Scan(&n).Error
		return err == nil && n > 0
	}, 10*time.Second, 20*time.Millisecond)
}

func openInstallOf(t *testing.T, db *gorm.DB, sawID uint) models.BladeInstall {
	t.Helper()
	var install models.BladeInstall
	require.NoError(t, db.Where("saw_id = ? AND removed_at IS NULL", sawID).First(&install).Error)
	return install
}

func TestIntegration_ConcurrentTransitionsOnOneSaw(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	saw := f.saw(t, "S1")
	b1 := f.blade(t, "B1")
	b2 := f.blade(t, "B2")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			switch i % 4 {
			case 0:
				_, err = f.manager.Install(ctx, f.caller, saw.ID, b1.ID, InstallOptions{ReplaceReason: "Sløv"})
			case 1:
				_, err = f.manager.Uninstall(ctx, f.caller, saw.ID, "Service", "")
			case 2:
				_, err = f.manager.Swap(ctx, f.caller, saw.ID, b2.ID, "Sløv", "")
			case 3:
				_, err = f.manager.Install(ctx, f.caller, saw.ID, b2.ID, InstallOptions{ReplaceReason: "Sløv"})
			}
			// Swapping in the blade that is already mounted is refused
			if err != nil && !apierr.Is(err, apierr.KindBadRequest) {
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

func TestIntegration_InstallsRelocatingEachOtherKeepSingleOccupancy(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	saws := []models.Saw{f.saw(t, "S1"), f.saw(t, "S2"), f.saw(t, "S3")}
	var blades []models.SawBlade
	for i := 0; i < 4; i++ {
		blades = append(blades, f.blade(t, fmt.Sprintf("B%d", i)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	for i := 0; i < 90; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			saw := saws[i%len(saws)]
			blade := blades[(i*5)%len(blades)]
			var err error
			if i%6 == 5 {
				_, err = f.manager.Uninstall(ctx, f.caller, saw.ID, "Service", "")
			} else {
				_, err = f.manager.Install(ctx, f.caller, saw.ID, blade.ID, InstallOptions{ReplaceReason: "Sløv"})
			}
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Empty(t, failures, "installs moving blades between saws must not deadlock")
	f.assertSingleOccupancy(t)
}

func TestIntegration_ConcurrentUninstallsCloseOnce(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	f.install(t, saw.ID, blade.ID)

	results := make([]*UninstallResult, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.manager.Uninstall(ctx, f.caller, saw.ID, "Service", "")
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	var removed, unchanged int
	for _, res := range results {
		require.NotNil(t, res)
		if res.NoChange {
			unchanged++
			assert.Nil(t, res.Removed)
		} else {
			removed++
			require.NotNil(t, res.Removed)
			assert.Equal(t, blade.ID, res.Removed.BladeID)
		}
	}
	assert.Equal(t, 1, removed)
	assert.Equal(t, len(results)-1, unchanged)
}

func TestIntegration_UninstallLosingRaceIsNoChange(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	saw := f.saw(t, "S1")
	blade := f.blade(t, "B1")
	f.install(t, saw.ID, blade.ID)

	commit := holdInstallRow(t, f.db, openInstallOf(t, f.db, saw.ID).ID)

	type outcome struct {
		res *UninstallResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.manager.Uninstall(ctx, f.caller, saw.ID, "Sløv", "")
		done <- outcome{res, err}
	}()

	waitForLockWaiter(t, f.db)
	commit()

	got := <-done
	require.NoError(t, got.err)
	assert.True(t, got.res.NoChange)
	assert.Nil(t, got.res.Removed)
	assert.Equal(t, "uninstall:no_change", f.rec.last())

	var closed models.BladeInstall
	require.NoError(t, f.db.Where("saw_id = ?", saw.ID).First(&closed).Error)
	assert.Equal(t, "Service", closed.RemovedReason, "the winner's reason is kept")
}

func TestIntegration_InstallLosingRelocationRaceStillMounts(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	s1 := f.saw(t, "S1")
	s2 := f.saw(t, "S2")
	blade := f.blade(t, "B1")
	f.install(t, s2.ID, blade.ID)

	commit := holdInstallRow(t, f.db, openInstallOf(t, f.db, s2.ID).ID)

	type outcome struct {
		res *InstallResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.manager.Install(ctx, f.caller, s1.ID, blade.ID, InstallOptions{})
		done <- outcome{res, err}
	}()

	waitForLockWaiter(t, f.db)
	commit()

	got := <-done
	require.NoError(t, got.err)
	require.NotNil(t, got.res.Installed)
	assert.Equal(t, s1.ID, got.res.Installed.SawID)
	assert.Nil(t, got.res.Relocated, "the installation was already closed by the other transaction")
	f.assertSingleOccupancy(t)
}

func TestIntegration_SwapLosingRaceStillMounts(t *testing.T) {
	ctx := context.Background()
	f := setupPostgres(t, ctx)
	saw := f.saw(t, "S1")
	old := f.blade(t, "B1")
	next := f.blade(t, "B2")
	f.install(t, saw.ID, old.ID)

	commit := holdInstallRow(t, f.db, openInstallOf(t, f.db, saw.ID).ID)

	type outcome struct {
		res *SwapResult
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := f.manager.Swap(ctx, f.caller, saw.ID, next.ID, "Sløv", "")
		done <- outcome{res, err}
	}()

	waitForLockWaiter(t, f.db)
	commit()

	got := <-done
	require.NoError(t, got.err)
	require.NotNil(t, got.res.Installed)
	assert.Equal(t, next.ID, got.res.Installed.BladeID)
	assert.Nil(t, got.res.Removed)
	assert.Equal(t, next.ID, openInstallOf(t, f.db, saw.ID).BladeID)
	f.assertSingleOccupancy(t)
}
