package service

import (
	"database/sql"
	"errors"

	"awdtrack/internal/deadline"
	"awdtrack/internal/routing"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrReaderNil          = errors.New("reader is nil")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateReference = errors.New("AWD reference number already exists")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("document changed concurrently")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("session invalid or expired")
)

// reason is the client-safe explanation of a per-item failure in a bulk result.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return "not found"
	case errors.Is(err, routing.ErrActionNotPermitted):
		return "action not permitted in current state"
	case errors.Is(err, routing.ErrNotHolder), errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, routing.ErrInvalidTarget):
		return "invalid target"
	case errors.Is(err, routing.ErrRemarksRequired):
		return "remarks are required"
	case errors.Is(err, routing.ErrInspectorRequired):
		return "assigned inspector is required"
	case errors.Is(err, ErrConflict):
		return "document changed concurrently"
	case errors.Is(err, deadline.ErrInvalidDate), errors.Is(err, ErrInvalidInput):
		return "invalid input"
	default:
		return "internal error"
	}
}
