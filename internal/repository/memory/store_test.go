package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

func seedUser(t *testing.T, s *Store, name, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: email, Password: "x", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Jobs().Create(ctx, &models.Job{Title: "T", Description: "D", Budget: 1, OwnerID: owner.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	jobs, err := s.Jobs().List(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRollbackKeepsWritesMadeOutsideTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)

	entered := make(chan struct{})
	release := make(chan struct{})
	txErr := make(chan error, 1)
	boom := errors.New("boom")
	go func() {
		txErr <- s.Transaction(ctx, func(tx repository.Store) error {
			close(entered)
			<-release
			return boom
		})
	}()
	<-entered

	job := &models.Job{Title: "Logo", Description: "D", Budget: 10, OwnerID: owner.ID}
	created := make(chan error, 1)
	go func() { created <- s.Jobs().Create(ctx, job) }()

	close(release)
	require.ErrorIs(t, <-txErr, boom)
	require.NoError(t, <-created)

	got, err := s.Jobs().GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Logo", got.Title)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	owner := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(tx repository.Store) error {
		require.NoError(t, tx.Transaction(ctx, func(inner repository.Store) error {
			return inner.Jobs().Create(ctx, &models.Job{Title: "T", Description: "D", Budget: 1, OwnerID: owner.ID})
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	jobs, err := s.Jobs().List(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestUsersUniqueEmail(t *testing.T) {
	s := NewStore()
	seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)

	err := s.Users().Create(context.Background(), &models.User{Name: "Other", Email: "ann@example.com", Role: models.RoleFreelancer})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestJobListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ann := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)
	bob := seedUser(t, s, "Bob Builder", "bob@example.com", models.RoleClient)

	logo := &models.Job{Title: "Logo design", Description: "vector", Budget: 150, OwnerID: ann.ID}
	site := &models.Job{Title: "Website", Description: "landing page", Budget: 900, OwnerID: bob.ID}
	require.NoError(t, s.Jobs().Create(ctx, logo))
	require.NoError(t, s.Jobs().Create(ctx, site))

	all, err := s.Jobs().List(ctx, models.JobFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, site.ID, all[0].ID, "newest first")
	assert.Equal(t, "Bob Builder", all[0].ClientName)

	byOwnerName, err := s.Jobs().List(ctx, models.JobFilter{Search: "builder"})
	require.NoError(t, err)
	require.Len(t, byOwnerName, 1)
	assert.Equal(t, site.ID, byOwnerName[0].ID)

	cheap, err := s.Jobs().List(ctx, models.JobFilter{MaxBudget: 200})
	require.NoError(t, err)
	require.Len(t, cheap, 1)
	assert.Equal(t, logo.ID, cheap[0].ID)

	wildcard, err := s.Jobs().List(ctx, models.JobFilter{Search: "%"})
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	mine, err := s.Jobs().List(ctx, models.JobFilter{OwnerID: ann.ID})
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestAwardedFilter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ann := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)
	fl := seedUser(t, s, "Fay", "fay@example.com", models.RoleFreelancer)

	job := &models.Job{Title: "Logo", Description: "D", Budget: 10, OwnerID: ann.ID}
	require.NoError(t, s.Jobs().Create(ctx, job))
	p := &models.Proposal{JobID: job.ID, FreelancerID: fl.ID, Message: "me"}
	require.NoError(t, s.Proposals().Create(ctx, p))

	none, err := s.Jobs().List(ctx, models.JobFilter{AwardedTo: fl.ID})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, s.Proposals().UpdateStatus(ctx, p.ID, models.ProposalAccepted))
	got, err := s.Jobs().List(ctx, models.JobFilter{AwardedTo: fl.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, job.ID, got[0].ID)
}

func TestProposalScopedToJob(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ann := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)
	fl := seedUser(t, s, "Fay", "fay@example.com", models.RoleFreelancer)

	a := &models.Job{Title: "A", Description: "D", Budget: 1, OwnerID: ann.ID}
	b := &models.Job{Title: "B", Description: "D", Budget: 1, OwnerID: ann.ID}
	require.NoError(t, s.Jobs().Create(ctx, a))
	require.NoError(t, s.Jobs().Create(ctx, b))
	p := &models.Proposal{JobID: a.ID, FreelancerID: fl.ID, Message: "hi"}
	require.NoError(t, s.Proposals().Create(ctx, p))

	_, err := s.Proposals().GetForUpdate(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	got, err := s.Proposals().GetForUpdate(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalPending, got.Status)
}

func TestMarkReadOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ann := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)
	bob := seedUser(t, s, "Bob", "bob@example.com", models.RoleClient)

	n := &models.Notification{UserID: ann.ID, Type: models.NotifProposalSubmitted}
	require.NoError(t, s.Notifications().Create(ctx, n))

	assert.ErrorIs(t, s.Notifications().MarkRead(ctx, bob.ID, n.ID), apperrors.ErrNotFound)
	require.NoError(t, s.Notifications().MarkRead(ctx, ann.ID, n.ID))

	unread, err := s.Notifications().ListByUser(ctx, ann.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMessagesOrderAndCascade(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	ann := seedUser(t, s, "Ann", "ann@example.com", models.RoleClient)
	fay := seedUser(t, s, "Fay", "fay@example.com", models.RoleFreelancer)

	job := &models.Job{Title: "Logo", Description: "D", Budget: 10, OwnerID: ann.ID}
	require.NoError(t, s.Jobs().Create(ctx, job))

	require.NoError(t, s.Messages().Create(ctx, &models.Message{JobID: job.ID, SenderID: ann.ID, Text: "hello"}))
	require.NoError(t, s.Messages().Create(ctx, &models.Message{JobID: job.ID, SenderID: fay.ID, Text: "hi"}))

	err := s.Messages().Create(ctx, &models.Message{JobID: uuid.New(), SenderID: fay.ID, Text: "lost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	msgs, err := s.Messages().ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hello", msgs[0].Text, "oldest first")
	assert.Equal(t, "Fay", msgs[1].SenderName)
	assert.Equal(t, models.RoleFreelancer, msgs[1].SenderRole)

	require.NoError(t, s.Messages().DeleteBySender(ctx, fay.ID))
	msgs, err = s.Messages().ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	require.NoError(t, s.Messages().DeleteByJobOwner(ctx, ann.ID))
	msgs, err = s.Messages().ListByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
