package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("package", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"invalid transition", NewInvalidTransition("nope", nil), "INVALID_TRANSITION", http.StatusUnprocessableEntity},
		{"conflict", NewConflict("nope", nil), "CONFLICT", http.StatusConflict},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tc.err, &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
			assert.True(t, IsCode(tc.err, tc.code))
		})
	}
}

func TestIsCode(t *testing.T) {
	assert.False(t, IsCode(errors.New("plain"), "NOT_FOUND"))
	assert.False(t, IsCode(nil, "NOT_FOUND"))
	assert.True(t, IsCode(fmt.Errorf("wrap: %w", NewConflict("c", nil)), "CONFLICT"))
}

func TestToDomainError(t *testing.T) {
	t.Run("passes through domain errors", func(t *testing.T) {
		original := NewForbidden("stop")
		converted := ToDomainError(original)
		assert.Equal(t, "FORBIDDEN", converted.Code)
	})

	t.Run("maps fiber errors by status", func(t *testing.T) {
		converted := ToDomainError(fiber.NewError(http.StatusForbidden, "insufficient role"))
		assert.Equal(t, "FORBIDDEN", converted.Code)
		assert.Equal(t, http.StatusForbidden, converted.HTTPStatus)
		assert.Equal(t, "insufficient role", converted.Message)
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		converted := ToDomainError(errors.New("boom"))
		assert.Equal(t, "INTERNAL_ERROR", converted.Code)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToDomainError(nil))
	})
}
