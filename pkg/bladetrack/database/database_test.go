package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"gorm.io/gorm"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := Open(Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer Close(db)

	if err := Ping(db); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	sqlDB, _ := db.DB()
	if got := sqlDB.Stats().MaxOpenConnections; got != 1 {
		t.Errorf("Expected sqlite to be limited to 1 connection, got %d", got)
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(Config{Driver: "oracle", DSN: "x"}); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apierr.Kind
	}{
		{"not found", gorm.ErrRecordNotFound, apierr.KindNotFound},
		{"wrapped not found", fmt.Errorf("load saw: %w", gorm.ErrRecordNotFound), apierr.KindNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, apierr.KindConflict},
		{"pg unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, apierr.KindConflict},
		{"pg fk", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, apierr.KindNotFound},
		{"pg serialization", &pgconn.PgError{Code: pgerrcode.SerializationFailure}, apierr.KindInternal},
		{"already classified", apierr.BadRequest("nope"), apierr.KindBadRequest},
		{"other", errors.New("disk on fire"), apierr.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierr.KindOf(Classify(tt.err, "Saw not found", "Already exists"))
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}

	if Classify(nil, "", "") != nil {
		t.Error("Expected nil for nil error")
	}
}
