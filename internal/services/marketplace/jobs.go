package marketplace

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

func (s *Service) CreateJob(ctx context.Context, actor models.Actor, title, description string, budget float64) (uuid.UUID, error) {
	if !auth.CanCreateJob(actor.Role) {
		return uuid.Nil, apperrors.Unauthorized("Only clients and admins can post jobs")
	}

	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	fields := map[string][]string{}
	if title == "" {
		fields["title"] = append(fields["title"], "Title is required")
	}
	if description == "" {
		fields["description"] = append(fields["description"], "Description is required")
	}
	if math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
		fields["budget"] = append(fields["budget"], "Budget must be a positive number")
	}
	if len(fields) > 0 {
		return uuid.Nil, apperrors.ValidationFields(fields)
	}

	job := &models.Job{
		Title:       title,
		Description: description,
		Budget:      budget,
		OwnerID:     actor.ID,
		Status:      models.JobStatusOpen,
	}
	if err := s.store.Jobs().Create(ctx, job); err != nil {
		return uuid.Nil, err
	}

	s.log.InfoContext(ctx, "job created", slog.String("job_id", job.ID.String()), slog.String("owner_id", actor.ID.String()))
	return job.ID, nil
}

// ListJobs is public. Each job carries its proposals, newest first.
func (s *Service) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.JobView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperrors.Validation("Unknown job status")
	}
	if filter.MinBudget < 0 || filter.MaxBudget < 0 {
		return nil, apperrors.Validation("Budget filters must not be negative")
	}
	if filter.MaxBudget > 0 && filter.MinBudget > filter.MaxBudget {
		return nil, apperrors.Validation("Minimum budget exceeds maximum budget")
	}

	jobs, err := s.store.Jobs().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.attachProposals(ctx, jobs)
}

func (s *Service) GetJob(ctx context.Context, jobID uuid.UUID) (*models.JobView, error) {
	job, err := s.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	owner, err := s.store.Users().GetByID(ctx, job.OwnerID)
	if err != nil && !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	view := models.JobView{
		ID:          job.ID,
		Title:       job.Title,
		Description: job.Description,
		Budget:      job.Budget,
		OwnerID:     job.OwnerID,
		Status:      job.Status,
		CreatedAt:   job.CreatedAt,
	}
	if owner != nil {
		view.ClientName = owner.Name
	}

	views, err := s.attachProposals(ctx, []models.JobView{view})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListAwardedJobs returns the jobs in which the actor holds an accepted proposal.
func (s *Service) ListAwardedJobs(ctx context.Context, actor models.Actor) ([]models.JobView, error) {
	if actor.ID == uuid.Nil {
		return nil, apperrors.Unauthenticated("Authentication required")
	}
	jobs, err := s.store.Jobs().List(ctx, models.JobFilter{AwardedTo: actor.ID})
	if err != nil {
		return nil, err
	}
	return s.attachProposals(ctx, jobs)
}

func (s *Service) DeleteJob(ctx context.Context, actor models.Actor, jobID uuid.UUID) error {
	if !auth.CanDeleteJob(actor.Role) {
		return apperrors.Unauthorized("Only admins can delete jobs")
	}

	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Jobs().GetForUpdate(ctx, jobID); err != nil {
			return err
		}
		if err := tx.Proposals().DeleteByJob(ctx, jobID); err != nil {
			return err
		}
		if err := tx.Messages().DeleteByJob(ctx, jobID); err != nil {
			return err
		}
		return tx.Jobs().Delete(ctx, jobID)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "job deleted", slog.String("job_id", jobID.String()), slog.String("actor_id", actor.ID.String()))
	return nil
}

func (s *Service) attachProposals(ctx context.Context, jobs []models.JobView) ([]models.JobView, error) {
	if len(jobs) == 0 {
		return []models.JobView{}, nil
	}

	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	proposals, err := s.store.Proposals().ListByJobs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byJob := make(map[uuid.UUID][]models.ProposalView, len(jobs))
	for _, p := range proposals {
		byJob[p.JobID] = append(byJob[p.JobID], p)
	}
	for i := range jobs {
		jobs[i].Proposals = byJob[jobs[i].ID]
		if jobs[i].Proposals == nil {
			jobs[i].Proposals = []models.ProposalView{}
		}
	}
	return jobs, nil
}
