package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsCarryCodeAndStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"invalid transition", NewInvalidTransition("closed", "submit"), "INVALID_TRANSITION", http.StatusConflict},
		{"missing reason", NewMissingReason("reject"), "MISSING_REASON", http.StatusUnprocessableEntity},
		{"not found", NewNotFound("ticket", nil), "NOT_FOUND", http.StatusNotFound},
		{"upstream error", NewUpstreamError("file-service", errors.New("boom")), "UPSTREAM_ERROR", http.StatusBadGateway},
		{"upstream timeout", NewUpstreamTimeout("identity-service", context.DeadlineExceeded), "UPSTREAM_TIMEOUT", http.StatusGatewayTimeout},
		{"validation", NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("taken", nil), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *DomainError
			require.True(t, errors.As(tc.err, &domainErr))
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
			assert.True(t, IsCode(tc.err, tc.code))
		})
	}
}

func TestInvalidTransitionDetails(t *testing.T) {
	err := NewInvalidTransition("in_progress", "close")
	domainErr := ToDomainError(err)
	assert.Equal(t, "in_progress", domainErr.Details["current_status"])
	assert.Equal(t, "close", domainErr.Details["action"])
}

func TestToDomainErrorMapsGenericErrors(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		err := ToDomainError(fmt.Errorf("fetch: %w", pgx.ErrNoRows))
		assert.Equal(t, "NOT_FOUND", err.Code)
	})

	t.Run("deadline", func(t *testing.T) {
		err := ToDomainError(fmt.Errorf("call: %w", context.DeadlineExceeded))
		assert.Equal(t, "UPSTREAM_TIMEOUT", err.Code)
	})

	t.Run("passthrough", func(t *testing.T) {
		original := NewMissingReason("postpone")
		var domainErr *DomainError
		require.True(t, errors.As(original, &domainErr))
		assert.Same(t, domainErr, ToDomainError(original))
	})

	t.Run("unknown", func(t *testing.T) {
		err := ToDomainError(errors.New("weird"))
		assert.Equal(t, "INTERNAL_ERROR", err.Code)
	})

	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
		assert.NoError(t, MapError(nil))
	})
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewUpstreamError("identity-service", cause)
	assert.True(t, errors.Is(err, cause))
}
