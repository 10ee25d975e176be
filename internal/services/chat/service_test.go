package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/logger"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository/memory"
)

type pushed struct {
	userID uuid.UUID
	kind   string
	data   any
}

type recordingPusher struct {
	mu   sync.Mutex
	sent []pushed
	err  error
}

func (p *recordingPusher) Push(_ context.Context, userID uuid.UUID, kind string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, pushed{userID: userID, kind: kind, data: data})
	return p.err
}

func (p *recordingPusher) recipients() []uuid.UUID {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uuid.UUID, 0, len(p.sent))
	for _, s := range p.sent {
		out = append(out, s.userID)
	}
	return out
}

type fixture struct {
	svc    *Service
	store  *memory.Store
	pusher *recordingPusher
	job    uuid.UUID

	admin, owner, otherClient, bidder, stranger models.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	pusher := &recordingPusher{}

	mk := func(name, email string, role models.Role) models.Actor {
		u := &models.User{Name: name, Email: email, Password: "x", Role: role}
		require.NoError(t, store.Users().Create(ctx, u))
		return u.Actor()
	}

	f := &fixture{
		svc:         NewService(store, pusher, logger.Discard()),
		store:       store,
		pusher:      pusher,
		admin:       mk("Admin", "admin@example.com", models.RoleAdmin),
		owner:       mk("Carla Client", "carla@example.com", models.RoleClient),
		otherClient: mk("Cody Client", "cody@example.com", models.RoleClient),
		bidder:      mk("Fay Freelancer", "fay@example.com", models.RoleFreelancer),
		stranger:    mk("Finn Freelancer", "finn@example.com", models.RoleFreelancer),
	}

	job := &models.Job{Title: "Logo", Description: "D", Budget: 100, OwnerID: f.owner.ID}
	require.NoError(t, store.Jobs().Create(ctx, job))
	require.NoError(t, store.Proposals().Create(ctx, &models.Proposal{JobID: job.ID, FreelancerID: f.bidder.ID, Message: "me"}))
	f.job = job.ID
	return f
}

func TestSendMessageReachesOtherParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.SendMessage(ctx, f.owner, f.job, "  When can you start?  ")
	require.NoError(t, err)
	assert.Equal(t, "When can you start?", view.Text)
	assert.Equal(t, "Carla Client", view.SenderName)
	assert.Equal(t, models.RoleClient, view.SenderRole)

	assert.ElementsMatch(t, []uuid.UUID{f.bidder.ID}, f.pusher.recipients())
	assert.Equal(t, models.EventMessageCreated, f.pusher.sent[0].kind)

	_, err = f.svc.SendMessage(ctx, f.bidder, f.job, "Tomorrow")
	require.NoError(t, err)

	msgs, err := f.svc.ListMessages(ctx, f.bidder, f.job)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "When can you start?", msgs[0].Text)
	assert.Equal(t, "Tomorrow", msgs[1].Text)
}

func TestAdminMessagePushesToOwnerAndBidders(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SendMessage(context.Background(), f.admin, f.job, "Please keep it civil")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{f.owner.ID, f.bidder.ID}, f.pusher.recipients())
}

func TestChatRejectsOutsiders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for name, actor := range map[string]models.Actor{
		"client of another job":  f.otherClient,
		"freelancer without bid": f.stranger,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.SendMessage(ctx, actor, f.job, "hello")
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

			_, err = f.svc.ListMessages(ctx, actor, f.job)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}

	msgs, err := f.svc.ListMessages(ctx, f.admin, f.job)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, f.pusher.recipients())
}

func TestSendMessageValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SendMessage(ctx, f.owner, f.job, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.SendMessage(ctx, f.owner, f.job, strings.Repeat("a", MaxMessageLength+1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.SendMessage(ctx, f.owner, uuid.New(), "hello")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.SendMessage(ctx, models.Actor{}, f.job, "hello")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestSendMessageSurvivesPushFailure(t *testing.T) {
	f := newFixture(t)
	f.pusher.err = errors.New("redis down")

	_, err := f.svc.SendMessage(context.Background(), f.bidder, f.job, "still here")
	require.NoError(t, err)

	msgs, err := f.store.Messages().ListByJob(context.Background(), f.job)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
