package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrorKind classifies every failure the engine can surface. Handlers map
// kinds to transport status codes; raw storage errors never cross that
// boundary.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
)

// Error is the taxonomy error returned by all service operations.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return newError(KindForbidden, format, args...)
}

func NotFoundf(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

func Invalidf(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func Conflictf(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// KindOf extracts the taxonomy kind from an error chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// isDuplicateKey reports whether the storage error is a unique index
// violation. Gorm translates these for mysql/postgres; the sqlite drivers
// surface them as plain messages.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

// classifyStorage folds a raw storage error into the taxonomy. Not-found
// maps to NotFound with the supplied subject; everything else is reported
// as a conflict, never leaked verbatim.
func classifyStorage(err error, subject string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFoundf("%s not found", subject)
	case isDuplicateKey(err):
		return Conflictf("%s already exists", subject)
	default:
		return Conflictf("storage failure on %s", subject)
	}
}
