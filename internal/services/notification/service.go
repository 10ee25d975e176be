package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// List returns the actor's notifications, newest first.
func (s *Service) List(ctx context.Context, actor models.Actor, unreadOnly bool) ([]models.Notification, error) {
	if actor.ID == uuid.Nil {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	return s.store.Notifications().ListByUser(ctx, actor.ID, unreadOnly)
}

// MarkRead fails with NotFound for notifications addressed to someone else.
func (s *Service) MarkRead(ctx context.Context, actor models.Actor, id uuid.UUID) error {
	if actor.ID == uuid.Nil {
		return apperrors.Unauthenticated("Authentication required")
	}
	return s.store.Notifications().MarkRead(ctx, actor.ID, id)
}
