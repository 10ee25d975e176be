// Package marketplace is the job and proposal workflow: it composes the stores
// with the authorization policy. Every mutating call takes the acting user
// explicitly.
package marketplace

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

// Notifier delivers a user-facing event. Delivery is best effort; the
// workflow never fails because of it.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) error
}

type Options struct {
	// StrictTransitions rejects status changes on proposals that are no longer pending.
	StrictTransitions bool
}

type Service struct {
	store    repository.Store
	notifier Notifier
	log      *slog.Logger
	strict   bool
}

func NewService(store repository.Store, notifier Notifier, log *slog.Logger, opts Options) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		log:      log,
		strict:   opts.StrictTransitions,
	}
}

func (s *Service) notify(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, kind, payload); err != nil {
		s.log.WarnContext(ctx, "notification failed",
			slog.String("user_id", userID.String()),
			slog.String("type", kind),
			slog.Any("error", err),
		)
	}
}
