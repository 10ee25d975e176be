package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

func TestRoleGates(t *testing.T) {
	tests := []struct {
		role        models.Role
		createJob   bool
		submit      bool
		deleteJob   bool
		manageUsers bool
	}{
		{models.RoleClient, true, false, false, false},
		{models.RoleFreelancer, false, true, false, false},
		{models.RoleAdmin, true, false, true, true},
		{models.Role("guest"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.createJob, CanCreateJob(tt.role))
			assert.Equal(t, tt.submit, CanSubmitProposal(tt.role))
			assert.Equal(t, tt.deleteJob, CanDeleteJob(tt.role))
			assert.Equal(t, tt.manageUsers, CanManageUsers(tt.role))
		})
	}
}

func TestCanManageProposal(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, CanManageProposal(models.RoleClient, owner, owner))
	assert.False(t, CanManageProposal(models.RoleClient, other, owner))
	assert.True(t, CanManageProposal(models.RoleAdmin, other, owner))
	assert.False(t, CanManageProposal(models.RoleFreelancer, owner, owner))
	assert.False(t, CanManageProposal(models.RoleClient, uuid.Nil, uuid.Nil))
}

func TestCanJoinJobChat(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	assert.True(t, CanJoinJobChat(models.RoleClient, owner, owner, false))
	assert.False(t, CanJoinJobChat(models.RoleClient, other, owner, true))
	assert.True(t, CanJoinJobChat(models.RoleFreelancer, other, owner, true))
	assert.False(t, CanJoinJobChat(models.RoleFreelancer, other, owner, false))
	assert.True(t, CanJoinJobChat(models.RoleAdmin, other, owner, false))
	assert.False(t, CanJoinJobChat(models.Role("guest"), owner, owner, true))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Client ")
	assert.True(t, ok)
	assert.Equal(t, models.RoleClient, r)

	r, ok = ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, models.RoleAdmin, r)

	_, ok = ParseRole("moderator")
	assert.False(t, ok)
}
