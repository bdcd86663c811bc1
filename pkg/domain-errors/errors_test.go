package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("matches outer code", func(t *testing.T) {
		err := New(CodeNotFound, "donor not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("matches code through fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("record donation: %w", New(CodeStateMismatch, "hospital mismatch"))
		assert.True(t, HasCode(err, CodeStateMismatch))
	})

	t.Run("matches nested domain errors", func(t *testing.T) {
		inner := New(CodeTimeout, "lock wait exceeded")
		err := Wrap(inner, CodeInternal, "transaction failed")
		assert.True(t, HasCode(err, CodeInternal))
		assert.True(t, HasCode(err, CodeTimeout))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestCodeAndMessageOf(t *testing.T) {
	err := Wrap(errors.New("pq: relation missing"), CodeInternal, "failed to record donation")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "failed to record donation", MessageOf(err))
	assert.Contains(t, err.Error(), "pq: relation missing")

	assert.Equal(t, CodeInternal, CodeOf(errors.New("raw")))
	assert.Equal(t, "internal error", MessageOf(errors.New("raw")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(CodeTimeout, "busy")))
	assert.True(t, IsRetryable(New(CodeInternal, "db down")))
	assert.False(t, IsRetryable(New(CodeNotEligible, "wait")))
	assert.False(t, IsRetryable(New(CodeNotFound, "missing")))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeNotFound:           http.StatusNotFound,
		CodeNotEligible:        http.StatusUnprocessableEntity,
		CodeStateMismatch:      http.StatusConflict,
		CodeValidation:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusBadRequest,
		CodeTimeout:            http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		CodeInvariantViolation: http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(code), "code %s", code)
	}
}
