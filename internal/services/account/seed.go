package account

import (
	"context"
	"log/slog"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/utils"
)

var demoAccounts = []struct {
	name, email, password string
	role                  models.Role
}{
	{"Admin User", "admin@example.com", "admin123", models.RoleAdmin},
	{"Client User", "client@example.com", "client123", models.RoleClient},
	{"Freelancer User", "freelancer@example.com", "freelancer123", models.RoleFreelancer},
}

// Seed creates the demo accounts that are missing. Existing accounts are left alone.
func (s *Service) Seed(ctx context.Context) error {
	for _, d := range demoAccounts {
		_, err := s.store.Users().GetByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			return err
		}

		hash, err := utils.HashPassword(d.password)
		if err != nil {
			return apperrors.Internal(err, "failed to hash password")
		}
		u := &models.User{Name: d.name, Email: d.email, Password: hash, Role: d.role}
		if err := s.store.Users().Create(ctx, u); err != nil {
			return err
		}
		s.log.InfoContext(ctx, "demo account created", slog.String("email", d.email), slog.String("role", string(d.role)))
	}
	return nil
}
