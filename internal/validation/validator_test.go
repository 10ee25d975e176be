package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
)

type signup struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,user_role"`
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(signup{Name: "  ", Email: "nope", Password: "123", Role: "wizard"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"This field is required"}, appErr.Fields["name"])
	assert.Equal(t, []string{"Must be a valid email address"}, appErr.Fields["email"])
	assert.Equal(t, []string{"Must be at least 6 characters"}, appErr.Fields["password"])
	assert.Contains(t, appErr.Fields, "role")
}

func TestStructAcceptsValidInput(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(signup{Name: "Ann", Email: "ann@example.com", Password: "secret", Role: "Freelancer"}))
}

func TestProposalDecision(t *testing.T) {
	type decision struct {
		Status string `json:"status" validate:"proposal_decision"`
	}
	v := New()
	assert.NoError(t, v.Struct(decision{Status: "accepted"}))
	assert.ErrorIs(t, v.Struct(decision{Status: "pending"}), apperrors.ErrValidation)
}

func TestJobStatusFilter(t *testing.T) {
	type filter struct {
		Status string `json:"status" validate:"omitempty,job_status"`
	}
	v := New()
	assert.NoError(t, v.Struct(filter{}))
	assert.NoError(t, v.Struct(filter{Status: "in_progress"}))

	err := v.Struct(filter{Status: "bogus"})
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, []string{"Unknown job status"}, appErr.Fields["status"])
}
