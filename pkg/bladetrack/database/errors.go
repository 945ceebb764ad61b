package database

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mikepea/bladetrack/pkg/bladetrack/apierr"
	"gorm.io/gorm"
)

// Classify maps a datastore error onto an API error kind. notFound and
// conflict are the caller-facing messages for those two outcomes; anything
// else becomes an internal error that keeps err as its cause.
func Classify(err error, notFound, conflict string) error {
	if err == nil {
		return nil
	}

	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound(notFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apierr.Error{Kind: apierr.KindConflict, Message: conflict, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
			return &apierr.Error{Kind: apierr.KindConflict, Message: conflict, Err: err}
		case pgerrcode.ForeignKeyViolation:
			return &apierr.Error{Kind: apierr.KindNotFound, Message: notFound, Err: err}
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return apierr.Internal("Transaction conflict, try again", err)
		case pgerrcode.ConnectionException,
			pgerrcode.ConnectionDoesNotExist,
			pgerrcode.ConnectionFailure,
			pgerrcode.CannotConnectNow,
			pgerrcode.AdminShutdown,
			pgerrcode.CrashShutdown,
			pgerrcode.TooManyConnections:
			return apierr.Internal("Database unavailable", err)
		}
	}

	return apierr.Internal("Database error", err)
}
