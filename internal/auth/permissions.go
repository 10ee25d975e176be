// Package auth holds the role-based authorization policy. Every function is a
// pure decision: it never fails, and callers turn a false into an Unauthorized error.
package auth

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

func CanCreateJob(role models.Role) bool {
	return role == models.RoleClient || role == models.RoleAdmin
}

func CanSubmitProposal(role models.Role) bool {
	return role == models.RoleFreelancer
}

// CanManageProposal allows admins on any job and clients on the jobs they own.
func CanManageProposal(actorRole models.Role, actorID, jobOwnerID uuid.UUID) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return actorRole == models.RoleClient && actorID != uuid.Nil && actorID == jobOwnerID
}

// CanJoinJobChat admits admins, the job owner and freelancers who proposed on
// the job.
func CanJoinJobChat(actorRole models.Role, actorID, jobOwnerID uuid.UUID, proposed bool) bool {
	switch actorRole {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return actorID != uuid.Nil && actorID == jobOwnerID
	case models.RoleFreelancer:
		return proposed
	}
	return false
}

func CanDeleteJob(role models.Role) bool {
	return role == models.RoleAdmin
}

func CanManageUsers(role models.Role) bool {
	return role == models.RoleAdmin
}

func ValidRole(role models.Role) bool {
	switch role {
	case models.RoleClient, models.RoleFreelancer, models.RoleAdmin:
		return true
	}
	return false
}

// ParseRole accepts "Client", "client", " ADMIN " and so on.
func ParseRole(s string) (models.Role, bool) {
	r := models.Role(strings.ToLower(strings.TrimSpace(s)))
	return r, ValidRole(r)
}
