package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config describes how to reach the datastore
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
	Logger          zerolog.Logger
}

// Open connects to the configured datastore and returns the handle. The handle
// is passed to every handler and service; there is no package-level instance.
//
// SQLite is limited to a single open connection, which serializes
// transactions and lets ":memory:" databases be shared across calls.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newLogger(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql handle: %w", err)
	}

	if cfg.Driver == DriverPostgres {
		if cfg.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime > 0 {
			sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		}
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the datastore is reachable
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

type zerologWriter struct {
	log zerolog.Logger
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}

func newLogger(cfg Config) logger.Interface {
	slow := cfg.SlowThreshold
	if slow == 0 {
		slow = 200 * time.Millisecond
	}
	return logger.New(zerologWriter{log: cfg.Logger.With().Str("component", "gorm").Logger()}, logger.Config{
		SlowThreshold:             slow,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// IsNotFound reports whether err means no row matched
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
