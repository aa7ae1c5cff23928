package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewInvalidTransition signals that the requested lifecycle action is not
// legal from the ticket's current status. Never retried automatically.
func NewInvalidTransition(currentStatus, action string) error {
	return NewDomainError("INVALID_TRANSITION",
		fmt.Sprintf("action %q is not allowed from status %q", action, currentStatus),
		http.StatusConflict,
		map[string]any{"current_status": currentStatus, "action": action})
}

// NewMissingReason signals that an action requiring justification was
// invoked without one.
func NewMissingReason(action string) error {
	return NewDomainError("MISSING_REASON",
		fmt.Sprintf("action %q requires a reason", action),
		http.StatusUnprocessableEntity,
		map[string]any{"action": action})
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUpstreamError wraps a transient failure reaching an external
// collaborator (blob store, identity service, ticket store). Eligible for
// caller-side retry with backoff.
func NewUpstreamError(upstream string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("upstream %s failed", upstream),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"upstream": upstream},
		Err:        err,
	}
}

// NewUpstreamTimeout marks an upstream call that exceeded its caller
// supplied deadline. Kept distinct from validation failures.
func NewUpstreamTimeout(upstream string, err error) error {
	return &DomainError{
		Code:       "UPSTREAM_TIMEOUT",
		Message:    fmt.Sprintf("upstream %s timed out", upstream),
		HTTPStatus: http.StatusGatewayTimeout,
		Details:    map[string]any{"upstream": upstream},
		Err:        err,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		if de, ok := NewUpstreamTimeout("unknown", err).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
