package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/models"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Globals struct {
	Dev     bool
	Version string
}

// DatabaseFlags selects and tunes the datastore
type DatabaseFlags struct {
	Driver          string        `help:"database driver (sqlite or postgres)" default:"sqlite" enum:"sqlite,postgres" env:"BLADETRACK_DB_DRIVER"`
	DSN             string        `help:"database DSN: a file path for sqlite, a connection string for postgres" default:"bladetrack.db" env:"BLADETRACK_DB_DSN"`
	MaxOpenConns    int           `help:"maximum open connections (postgres)" default:"20" env:"BLADETRACK_DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `help:"maximum idle connections (postgres)" default:"5" env:"BLADETRACK_DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `help:"maximum connection lifetime (postgres)" default:"1h" env:"BLADETRACK_DB_CONN_MAX_LIFETIME"`
	SlowThreshold   time.Duration `help:"log queries slower than this" default:"200ms" env:"BLADETRACK_DB_SLOW_THRESHOLD"`
	AutoMigrate     bool          `help:"run database migrations on startup" default:"true" negatable:"" env:"BLADETRACK_DB_AUTO_MIGRATE"`
	ConnectTimeout  time.Duration `help:"how long to keep retrying an unreachable database on startup (postgres), 0 disables" default:"30s" env:"BLADETRACK_DB_CONNECT_TIMEOUT"`
}

func (d *DatabaseFlags) Validate() error {
	if d.DSN == "" {
		return errors.New("database DSN is required (--db-dsn or BLADETRACK_DB_DSN)")
	}
	if d.Driver == database.DriverPostgres && d.MaxOpenConns < 1 {
		return errors.New("--db-max-open-conns must be at least 1")
	}
	return nil
}

// open connects, and migrates when asked to. A postgres server that is still
// starting is retried with exponential backoff until ConnectTimeout.
func (d *DatabaseFlags) open(ctx context.Context, log zerolog.Logger) (*gorm.DB, error) {
	cfg := database.Config{
		Driver:          d.Driver,
		DSN:             d.DSN,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		SlowThreshold:   d.SlowThreshold,
		Logger:          log,
	}
	connect := func() (*gorm.DB, error) { return database.Open(cfg) }

	var db *gorm.DB
	var err error
	if d.Driver == database.DriverPostgres && d.ConnectTimeout > 0 {
		db, err = backoff.Retry(ctx, connect,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxElapsedTime(d.ConnectTimeout),
			backoff.WithNotify(func(err error, next time.Duration) {
				log.Warn().Err(err).Dur("retry_in", next).Msg("database unreachable, retrying")
			}))
	} else {
		db, err = connect()
	}
	if err != nil {
		return nil, err
	}

	if d.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Str("driver", d.Driver).Msg("database migrations completed")
	}
	return db, nil
}

func configureHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    8 * 1024, // 8KiB
	}
}
