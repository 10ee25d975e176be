package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
)

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository {
	return &gormUserRepository{db: s.db}
}

func (s *gormStore) Jobs() JobRepository {
	return &gormJobRepository{db: s.db}
}

func (s *gormStore) Proposals() ProposalRepository {
	return &gormProposalRepository{db: s.db}
}

func (s *gormStore) Notifications() NotificationRepository {
	return &gormNotificationRepository{db: s.db}
}

func (s *gormStore) Messages() MessageRepository {
	return &gormMessageRepository{db: s.db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapErr converts a gorm error into the app taxonomy. Errors that already
// carry a kind pass through unchanged.
func mapErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(notFound)
	}
	if isUniqueViolation(err) {
		return apperrors.Conflict("Record already exists")
	}
	return apperrors.Internal(err, "database error")
}
