package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DjordjeVuckovic/kernsecbench/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("field is required")

	assert.Equal(t, "field is required", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("parse failed")
	err := apperr.NewValidationWrap("invalid spec", inner)

	assert.Equal(t, "invalid spec: parse failed", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestInconsistentError_SurvivesWrapping(t *testing.T) {
	original := &apperr.InconsistentError{Run: "pti_on", Metric: "x", Units: []string{"s", "ms"}}
	wrapped := apperr.NewStage("aggregate", "pti_on", "", original)
	doubleWrapped := fmt.Errorf("analysis: %w", wrapped)

	var ie *apperr.InconsistentError
	require.True(t, errors.As(doubleWrapped, &ie))
	assert.Equal(t, "x", ie.Metric)
	assert.Equal(t, "pti_on", ie.Run)
	assert.Contains(t, doubleWrapped.Error(), `unit mismatch for metric "x" in run "pti_on": s, ms`)
}

func TestAmbiguousError_Message(t *testing.T) {
	err := &apperr.AmbiguousError{Line: "Simple read: 1 us", Patterns: []string{"read", "read_dup"}}
	assert.Contains(t, err.Error(), "read, read_dup")
}

func TestStageError_Message(t *testing.T) {
	err := apperr.NewStage("extract", "ibrs", "kernel_1.json", apperr.NotFoundf("lmbench section"))

	assert.Equal(t, "extract [run=ibrs] [source=kernel_1.json]: lmbench section: not found", err.Error())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestNotFound_NotMatchedByPlainErrors(t *testing.T) {
	plain := fmt.Errorf("read failed")
	assert.False(t, errors.Is(plain, apperr.ErrNotFound))

	var ve *apperr.ValidationError
	assert.False(t, errors.As(plain, &ve))
}
