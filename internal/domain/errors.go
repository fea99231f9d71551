package domain

import (
	"errors"
	"fmt"
)

// ErrorKind partitions every failure the engine can surface. The transport
// layer maps kinds to HTTP statuses; the kinds themselves are
// transport-independent.
type ErrorKind string

const (
	ErrorKindNotFound   ErrorKind = "not_found"
	ErrorKindValidation ErrorKind = "validation_error"
	ErrorKindDatabase   ErrorKind = "database_error"
	ErrorKindGedcom     ErrorKind = "gedcom_error"
	ErrorKindIO         ErrorKind = "io_error"
	ErrorKindInternal   ErrorKind = "internal_error"
)

// Error is the engine-wide error value.
type Error struct {
	Kind    ErrorKind
	Entity  string // set for not-found errors
	ID      string // set for not-found errors
	Message string
	cause   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindNotFound:
		return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
	case ErrorKindValidation:
		return fmt.Sprintf("Validation error: %s", e.Message)
	case ErrorKindDatabase:
		return fmt.Sprintf("Database error: %s", e.Message)
	case ErrorKindGedcom:
		return fmt.Sprintf("GEDCOM error: %s", e.Message)
	case ErrorKindIO:
		return fmt.Sprintf("IO error: %s", e.Message)
	default:
		return fmt.Sprintf("Internal error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// NotFoundError reports a missing or soft-deleted entity.
func NotFoundError(entity, id string) *Error {
	return &Error{Kind: ErrorKindNotFound, Entity: entity, ID: id}
}

// ValidationError reports a violated invariant or malformed input.
func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindValidation, Message: fmt.Sprintf(format, args...)}
}

// DatabaseError wraps a storage fault so driver types never leak upward.
func DatabaseError(cause error) *Error {
	return &Error{Kind: ErrorKindDatabase, Message: cause.Error(), cause: cause}
}

// GedcomError reports an unrecoverable GEDCOM parse failure.
func GedcomError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindGedcom, Message: fmt.Sprintf(format, args...)}
}

// IOError wraps a file system fault.
func IOError(cause error) *Error {
	return &Error{Kind: ErrorKindIO, Message: cause.Error(), cause: cause}
}

// InternalError reports a bug, such as failing to decode our own data.
func InternalError(format string, args ...any) *Error {
	return &Error{Kind: ErrorKindInternal, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from err, defaulting to internal for
// unrecognized errors.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ErrorKindInternal
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrorKindNotFound
}
