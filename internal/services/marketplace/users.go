package marketplace

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

var errNotAdmin = apperrors.Unauthorized("Only admins can manage users")

func (s *Service) ListUsers(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if !auth.CanManageUsers(actor.Role) {
		return nil, errNotAdmin
	}
	return s.store.Users().List(ctx)
}

// DeleteUser removes the user together with everything hanging off it:
// authored proposals and messages, owned jobs with their proposals and
// messages, and notifications.
func (s *Service) DeleteUser(ctx context.Context, actor models.Actor, userID uuid.UUID) error {
	if !auth.CanManageUsers(actor.Role) {
		return errNotAdmin
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByID(ctx, userID); err != nil {
			return err
		}
		if err := tx.Proposals().DeleteByFreelancer(ctx, userID); err != nil {
			return err
		}
		if err := tx.Proposals().DeleteByJobOwner(ctx, userID); err != nil {
			return err
		}
		if err := tx.Messages().DeleteBySender(ctx, userID); err != nil {
			return err
		}
		if err := tx.Messages().DeleteByJobOwner(ctx, userID); err != nil {
			return err
		}
		if err := tx.Jobs().DeleteByOwner(ctx, userID); err != nil {
			return err
		}
		if err := tx.Notifications().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return tx.Users().Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "user deleted", slog.String("user_id", userID.String()), slog.String("actor_id", actor.ID.String()))
	return nil
}

// ToggleBan flips the stored flag and returns its new value. Nothing in the
// request path consults it yet.
func (s *Service) ToggleBan(ctx context.Context, actor models.Actor, userID uuid.UUID) (bool, error) {
	if !auth.CanManageUsers(actor.Role) {
		return false, errNotAdmin
	}

	var banned bool
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		banned, err = tx.Users().ToggleBan(ctx, userID)
		return err
	})
	if err != nil {
		return false, err
	}

	s.log.InfoContext(ctx, "user ban toggled", slog.String("user_id", userID.String()), slog.Bool("banned", banned))
	return banned, nil
}
