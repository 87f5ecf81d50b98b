package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"awdtrack/internal/deadline"
	"awdtrack/internal/http/middleware"
	"awdtrack/internal/routing"
	"awdtrack/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service and engine errors into responses.
// Validation messages are built by this codebase and safe to echo; anything
// unrecognised becomes a 500 and is handed to the request logger.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "ID_REQUIRED", "id is required")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, deadline.ErrInvalidDate):
		return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, fiber.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, routing.ErrInvalidTarget),
		errors.Is(err, routing.ErrInspectorRequired),
		errors.Is(err, routing.ErrRemarksRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ACTION", err.Error())
	case errors.Is(err, routing.ErrActionNotPermitted):
		return writeError(c, fiber.StatusConflict, "ACTION_NOT_PERMITTED", err.Error())
	case errors.Is(err, service.ErrConflict):
		return writeError(c, fiber.StatusConflict, "CONFLICT", "document changed, reload and retry")
	case errors.Is(err, service.ErrDuplicateReference):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_REFERENCE", "AWD reference number already exists")
	case errors.Is(err, service.ErrDuplicateEmail):
		return writeError(c, fiber.StatusConflict, "DUPLICATE_EMAIL", "email already registered")
	case errors.Is(err, service.ErrForbidden), errors.Is(err, routing.ErrNotHolder):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "not allowed for this role")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, service.ErrUnauthorized):
		return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "session invalid or expired")
	default:
		c.Locals(middleware.ErrorLocalKey, err.Error())
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", "authentication required")
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", "not allowed for this role")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			c.Locals(middleware.ErrorLocalKey, err.Error())
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
