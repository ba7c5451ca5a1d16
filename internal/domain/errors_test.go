package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrConflict, ErrValidation, ErrUnavailable}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestNotFoundError_Messages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "entity and id",
			err:      NewNotFoundError("quote", "q-1"),
			expected: `quote with id "q-1" not found`,
		},
		{
			name:     "entity only",
			err:      NewNotFoundError("quote", ""),
			expected: "quote not found",
		},
		{
			name:     "empty category",
			err:      NewEmptyCategoryError("Life"),
			expected: `no quotes in "Life" yet`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrNotFound)
			assert.True(t, IsNotFound(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	withField := NewValidationError("text", "is required")
	assert.Equal(t, "validation failed for text: is required", withField.Error())

	withoutField := NewValidationError("", "JSON is not an array")
	assert.Equal(t, "validation failed: JSON is not an array", withoutField.Error())

	var ve *ValidationError
	require.ErrorAs(t, withField, &ve)
	assert.Equal(t, "text", ve.Field)
	assert.True(t, IsValidation(withoutField))
}

func TestConflictAndUnavailableErrors(t *testing.T) {
	conflict := NewConflictError("quote", "already exists")
	assert.Equal(t, "quote conflict: already exists", conflict.Error())
	assert.True(t, IsConflict(conflict))

	unavailable := NewUnavailableError("placeholder-api", "timeout")
	assert.Equal(t, `service "placeholder-api" unavailable: timeout`, unavailable.Error())
	assert.True(t, IsUnavailable(unavailable))

	bare := NewUnavailableError("store", "")
	assert.Equal(t, `service "store" unavailable`, bare.Error())
}

// TestErrorWrappingChain verifies that sentinels survive fmt.Errorf wrapping.
func TestErrorWrappingChain(t *testing.T) {
	base := NewUnavailableError("placeholder-api", "connection refused")
	wrapped := fmt.Errorf("uploading quote: %w", base)
	twice := fmt.Errorf("sync cycle: %w", wrapped)

	assert.True(t, IsUnavailable(twice))
	assert.False(t, IsNotFound(twice))

	var ue *UnavailableError
	require.True(t, errors.As(twice, &ue))
	assert.Equal(t, "placeholder-api", ue.Service)
}
