// Package chat is the conversation attached to each job. Messages are stored
// with the job and pushed live to the other participants.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

const MaxMessageLength = 2000

// Pusher sends a live frame to a user's open connections. Delivery is best
// effort.
type Pusher interface {
	Push(ctx context.Context, userID uuid.UUID, kind string, data any) error
}

type Service struct {
	store  repository.Store
	pusher Pusher
	log    *slog.Logger
}

func NewService(store repository.Store, pusher Pusher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, pusher: pusher, log: log}
}

var errNotParticipant = apperrors.Unauthorized("Only participants of this job can use its chat")

// participants returns the job owner and every freelancer with a proposal on
// the job.
func participants(ctx context.Context, store repository.Store, job *models.Job) (map[uuid.UUID]struct{}, error) {
	members := map[uuid.UUID]struct{}{job.OwnerID: {}}
	proposals, err := store.Proposals().ListByJobs(ctx, []uuid.UUID{job.ID})
	if err != nil {
		return nil, err
	}
	for _, p := range proposals {
		members[p.FreelancerID] = struct{}{}
	}
	return members, nil
}

func canJoin(actor models.Actor, job *models.Job, members map[uuid.UUID]struct{}) bool {
	_, proposed := members[actor.ID]
	return auth.CanJoinJobChat(actor.Role, actor.ID, job.OwnerID, proposed && actor.ID != job.OwnerID)
}

// ListMessages returns the conversation of a job, oldest first.
func (s *Service) ListMessages(ctx context.Context, actor models.Actor, jobID uuid.UUID) ([]models.MessageView, error) {
	if actor.ID == uuid.Nil {
		return nil, apperrors.Unauthenticated("Authentication required")
	}

	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	members, err := participants(ctx, s.store, job)
	if err != nil {
		return nil, err
	}
	if !canJoin(actor, job, members) {
		return nil, errNotParticipant
	}
	return s.store.Messages().ListByJob(ctx, jobID)
}

// SendMessage stores a message and pushes it to every other participant. The
// job row stays locked until the message is written.
func (s *Service) SendMessage(ctx context.Context, actor models.Actor, jobID uuid.UUID, text string) (*models.MessageView, error) {
	if actor.ID == uuid.Nil {
		return nil, apperrors.Unauthenticated("Authentication required")
	}

	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, apperrors.ValidationFields(map[string][]string{"text": {"This field is required"}})
	case utf8.RuneCountInString(text) > MaxMessageLength:
		return nil, apperrors.ValidationFields(map[string][]string{"text": {"Must be at most 2000 characters"}})
	}

	var (
		msg     *models.Message
		members map[uuid.UUID]struct{}
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		job, err := tx.Jobs().GetForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		members, err = participants(ctx, tx, job)
		if err != nil {
			return err
		}
		if !canJoin(actor, job, members) {
			return errNotParticipant
		}

		msg = &models.Message{JobID: jobID, SenderID: actor.ID, Text: text}
		return tx.Messages().Create(ctx, msg)
	})
	if err != nil {
		return nil, err
	}

	view := &models.MessageView{
		ID:         msg.ID,
		JobID:      msg.JobID,
		SenderID:   msg.SenderID,
		SenderRole: actor.Role,
		Text:       msg.Text,
		CreatedAt:  msg.CreatedAt,
	}
	if sender, err := s.store.Users().GetByID(ctx, actor.ID); err == nil {
		view.SenderName = sender.Name
	}

	s.log.InfoContext(ctx, "chat message sent",
		slog.String("message_id", msg.ID.String()),
		slog.String("job_id", jobID.String()),
		slog.String("sender_id", actor.ID.String()),
	)
	for userID := range members {
		if userID != actor.ID {
			s.push(ctx, userID, view)
		}
	}
	return view, nil
}

func (s *Service) push(ctx context.Context, userID uuid.UUID, view *models.MessageView) {
	if s.pusher == nil {
		return
	}
	if err := s.pusher.Push(ctx, userID, models.EventMessageCreated, view); err != nil {
		s.log.WarnContext(ctx, "chat push failed",
			slog.String("user_id", userID.String()),
			slog.String("message_id", view.ID.String()),
			slog.Any("error", err),
		)
	}
}
