package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sentinel errors
// ─────────────────────────────────────────────────────────────────────────────

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("jobly/db: record not found")

	// ErrDuplicateKey is returned on unique constraint violations.
	ErrDuplicateKey = errors.New("jobly/db: duplicate key")

	// ErrForeignKeyViolation is returned when a foreign key constraint is violated.
	ErrForeignKeyViolation = errors.New("jobly/db: foreign key violation")

	// ErrCheckViolation is returned when a CHECK constraint is violated.
	ErrCheckViolation = errors.New("jobly/db: check constraint violation")

	// ErrNotNullViolation is returned when a required column is set to NULL.
	ErrNotNullViolation = errors.New("jobly/db: not null violation")

	// ErrUndefinedColumn is returned when a statement references a column the
	// table does not have.
	ErrUndefinedColumn = errors.New("jobly/db: undefined column")

	// ErrInvalidInput is returned when a bound value cannot be converted to
	// the column type, or the statement text is malformed.
	ErrInvalidInput = errors.New("jobly/db: invalid input")

	// ErrDeadlock is returned when the database detects a deadlock.
	ErrDeadlock = errors.New("jobly/db: deadlock detected")

	// ErrTimeout is returned when a statement exceeds its deadline.
	ErrTimeout = errors.New("jobly/db: query timeout")

	// ErrConnectionFailed is returned when the driver cannot reach the server.
	ErrConnectionFailed = errors.New("jobly/db: connection failed")
)

// ─────────────────────────────────────────────────────────────────────────────
// Error helpers
// ─────────────────────────────────────────────────────────────────────────────

func IsNotFound(err error) bool            { return errors.Is(err, ErrNotFound) }
func IsDuplicateKey(err error) bool        { return errors.Is(err, ErrDuplicateKey) }
func IsForeignKeyViolation(err error) bool { return errors.Is(err, ErrForeignKeyViolation) }
func IsDeadlock(err error) bool            { return errors.Is(err, ErrDeadlock) }
func IsTimeout(err error) bool             { return errors.Is(err, ErrTimeout) }
func IsConnectionFailed(err error) bool    { return errors.Is(err, ErrConnectionFailed) }
func IsUndefinedColumn(err error) bool     { return errors.Is(err, ErrUndefinedColumn) }

// IsClientError reports whether err was caused by the values or columns the
// caller supplied rather than by the database itself.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrUndefinedColumn,
		ErrInvalidInput,
		ErrCheckViolation,
		ErrNotNullViolation,
		ErrForeignKeyViolation,
		ErrDuplicateKey,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsTransient reports whether retrying the same operation may succeed.
func IsTransient(err error) bool {
	return IsConnectionFailed(err) || IsDeadlock(err) || IsTimeout(err)
}

// ─────────────────────────────────────────────────────────────────────────────
// DBError
// ─────────────────────────────────────────────────────────────────────────────

// DBError wraps a sentinel error with the original driver error so callers can
// either use errors.Is(err, ErrDuplicateKey) or inspect the driver error.
type DBError struct {
	// Sentinel is one of the package-level Err* variables.
	Sentinel error
	// Cause is the original driver error.
	Cause error
	// Message is an optional human-readable hint.
	Message string
}

func (e *DBError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Sentinel, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (cause: %v)", e.Sentinel, e.Cause)
}

func (e *DBError) Is(target error) bool { return errors.Is(e.Sentinel, target) }
func (e *DBError) Unwrap() error        { return e.Cause }

// ─────────────────────────────────────────────────────────────────────────────
// ErrorMapper
// ─────────────────────────────────────────────────────────────────────────────

// ErrorMapper translates raw driver errors into the package's sentinel errors.
type ErrorMapper interface {
	Map(err error) error
}

// ErrorMapperFunc adapts a function to ErrorMapper.
type ErrorMapperFunc func(error) error

func (f ErrorMapperFunc) Map(err error) error { return f(err) }

// DefaultErrorMapper handles lib/pq, pgx and SQLite errors.
func DefaultErrorMapper() ErrorMapper {
	return ErrorMapperFunc(defaultMap)
}

func defaultMap(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &DBError{Sentinel: ErrNotFound, Cause: err}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &DBError{Sentinel: ErrTimeout, Cause: err}
	}

	// Already mapped; do not double-wrap.
	var dbe *DBError
	if errors.As(err, &dbe) {
		return err
	}

	if mapped := mapPQError(err); mapped != nil {
		return mapped
	}
	if mapped := mapPGXError(err); mapped != nil {
		return mapped
	}
	if mapped := mapSQLiteError(err); mapped != nil {
		return mapped
	}

	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// PostgreSQL
// ─────────────────────────────────────────────────────────────────────────────

func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}
	return mapByPGCode(string(pqErr.Code), pqErr.Message, err)
}

func mapPGXError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	return mapByPGCode(pgErr.Code, pgErr.Message, err)
}

// mapByPGCode maps SQLSTATE codes:
// https://www.postgresql.org/docs/current/errcodes-appendix.html
func mapByPGCode(code, msg string, cause error) error {
	var sentinel error
	switch code {
	case "23505": // unique_violation
		sentinel = ErrDuplicateKey
	case "23503": // foreign_key_violation
		sentinel = ErrForeignKeyViolation
	case "23514": // check_violation
		sentinel = ErrCheckViolation
	case "23502": // not_null_violation
		sentinel = ErrNotNullViolation
	case "42703": // undefined_column
		sentinel = ErrUndefinedColumn
	case "42601", "22P02", "22003", "42804": // syntax_error, invalid_text_representation, numeric_value_out_of_range, datatype_mismatch
		sentinel = ErrInvalidInput
	case "40P01": // deadlock_detected
		sentinel = ErrDeadlock
	case "57014": // query_canceled
		sentinel = ErrTimeout
	case "08000", "08003", "08006", "08001", "08004", "08007", "08P01", "57P03":
		sentinel = ErrConnectionFailed
	default:
		return nil
	}
	return &DBError{Sentinel: sentinel, Cause: cause, Message: msg}
}

// ─────────────────────────────────────────────────────────────────────────────
// SQLite (string-based so the cgo driver stays out of non-test builds)
// ─────────────────────────────────────────────────────────────────────────────

func mapSQLiteError(err error) error {
	s := err.Error()
	var sentinel error
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		sentinel = ErrDuplicateKey
	case strings.Contains(s, "FOREIGN KEY constraint failed"):
		sentinel = ErrForeignKeyViolation
	case strings.Contains(s, "CHECK constraint failed"):
		sentinel = ErrCheckViolation
	case strings.Contains(s, "NOT NULL constraint failed"):
		sentinel = ErrNotNullViolation
	case strings.Contains(s, "no such column"):
		sentinel = ErrUndefinedColumn
	case strings.Contains(s, "datatype mismatch"), strings.Contains(s, "syntax error"):
		sentinel = ErrInvalidInput
	case strings.Contains(s, "database is locked"):
		sentinel = ErrDeadlock
	default:
		return nil
	}
	return &DBError{Sentinel: sentinel, Cause: err}
}

// ─────────────────────────────────────────────────────────────────────────────
// ChainMapper
// ─────────────────────────────────────────────────────────────────────────────

// ChainMapper returns an ErrorMapper that tries each mapper in order and
// returns the first remapped error.
func ChainMapper(mappers ...ErrorMapper) ErrorMapper {
	return ErrorMapperFunc(func(err error) error {
		if err == nil {
			return nil
		}
		for _, m := range mappers {
			if mapped := m.Map(err); mapped != err {
				return mapped
			}
		}
		return err
	})
}
