package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestWrapPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapPersistenceError(cause, "could not insert payment")

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "[PERSISTENCE_ERROR] could not insert payment", err.Error())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("mode", "must be automatic or manual")

	assert.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "mode", vErr.Field)
	assert.Contains(t, err.Error(), "validation failed for field 'mode'")
}
