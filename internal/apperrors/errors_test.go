package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("loading job: %w", NotFound("Job not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "failed to load jobs")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestValidationFields(t *testing.T) {
	assert.Nil(t, ValidationFields(nil))

	err := ValidationFields(map[string][]string{"title": {"Title is required"}})
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, []string{"Title is required"}, err.Fields["title"])
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthenticated: http.StatusUnauthorized,
		KindUnauthorized:    http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), kind)
	}
}
