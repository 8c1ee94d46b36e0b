package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skryldev/jobly/auth"
	"github.com/Skryldev/jobly/db"
	"github.com/Skryldev/jobly/sqlbuild"
)

// Error is an error with the HTTP status it should be rendered with.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

var (
	errNotFound     = errorf(http.StatusNotFound, "Not Found")
	errUnauthorized = errorf(http.StatusUnauthorized, "Unauthorized")
	errMissingData  = errorf(http.StatusBadRequest, "Missing data")

	// errForbiddenAdmin rejects a non-admin caller setting is_admin.
	errForbiddenAdmin = errorf(http.StatusForbidden, "Only admins may set is_admin")
)

// toHTTPError is the single place where domain and storage errors become
// HTTP statuses.
func toHTTPError(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}

	var rangeErr *sqlbuild.RangeError
	var paramErr *sqlbuild.ParamError
	switch {
	case errors.As(err, &rangeErr):
		return &Error{Status: http.StatusBadRequest, Message: rangeErr.Error(), Err: err}
	case errors.As(err, &paramErr):
		return &Error{Status: http.StatusBadRequest, Message: paramErr.Error(), Err: err}
	case errors.Is(err, sqlbuild.ErrEmptyUpdate):
		return &Error{Status: http.StatusBadRequest, Message: errMissingData.Message, Err: err}
	case errors.Is(err, sqlbuild.ErrUnknownColumn), db.IsUndefinedColumn(err):
		return &Error{Status: http.StatusBadRequest, Message: "Invalid key", Err: err}

	case db.IsNotFound(err):
		return &Error{Status: http.StatusNotFound, Message: errNotFound.Message, Err: err}
	case db.IsDuplicateKey(err):
		return &Error{Status: http.StatusBadRequest, Message: "Already exists", Err: err}
	case db.IsForeignKeyViolation(err):
		return &Error{Status: http.StatusBadRequest, Message: "Referenced record does not exist", Err: err}
	case db.IsClientError(err):
		return &Error{Status: http.StatusBadRequest, Message: "Invalid value", Err: err}

	case errors.Is(err, auth.ErrInvalidToken):
		return &Error{Status: http.StatusUnauthorized, Message: errUnauthorized.Message, Err: err}
	case errors.Is(err, auth.ErrBadCredentials):
		return &Error{Status: http.StatusBadRequest, Message: "Invalid credentials", Err: err}

	case db.IsTimeout(err), db.IsConnectionFailed(err):
		return &Error{Status: http.StatusServiceUnavailable, Message: http.StatusText(http.StatusServiceUnavailable), Err: err}
	}
	return &Error{Status: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError), Err: err}
}
