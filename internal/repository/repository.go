// Package repository defines the persistence ports of the marketplace and their
// gorm/postgres implementation. Every method returns *apperrors.Error values:
// NotFound for missing rows, Conflict for unique violations, Internal otherwise.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// List returns every user, newest first.
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error
	// ToggleBan flips the banned flag and returns the new value.
	ToggleBan(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	// GetForUpdate loads the job and holds a row lock until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error)
	// List returns jobs joined with their owner's name, newest first.
	// Proposals are left empty.
	List(ctx context.Context, filter models.JobFilter) ([]models.JobView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error
}

type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	// GetForUpdate loads a proposal belonging to jobID and locks its row.
	GetForUpdate(ctx context.Context, jobID, id uuid.UUID) (*models.Proposal, error)
	// ListByJobs returns the proposals of the given jobs joined with their
	// authors, newest first.
	ListByJobs(ctx context.Context, jobIDs []uuid.UUID) ([]models.ProposalView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProposalStatus) error
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
	DeleteByJobOwner(ctx context.Context, ownerID uuid.UUID) error
	DeleteByFreelancer(ctx context.Context, freelancerID uuid.UUID) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *models.Message) error
	// ListByJob returns the conversation of a job joined with the senders,
	// oldest first.
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.MessageView, error)
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
	DeleteByJobOwner(ctx context.Context, ownerID uuid.UUID) error
	DeleteBySender(ctx context.Context, senderID uuid.UUID) error
}

// Store groups the repositories and provides the unit of work. Repositories
// obtained from the Store passed to fn all run inside the same transaction.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Proposals() ProposalRepository
	Notifications() NotificationRepository
	Messages() MessageRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
