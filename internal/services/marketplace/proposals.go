package marketplace

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/auth"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

// SubmitProposal creates a pending proposal. The job row stays locked until
// the proposal is written, so a concurrent DeleteJob either sees the proposal
// or the insert fails with NotFound.
func (s *Service) SubmitProposal(ctx context.Context, actor models.Actor, jobID uuid.UUID, message string) (uuid.UUID, error) {
	if !auth.CanSubmitProposal(actor.Role) {
		return uuid.Nil, apperrors.Unauthorized("Only freelancers can submit proposals")
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return uuid.Nil, apperrors.ValidationFields(map[string][]string{
			"message": {"Message is required"},
		})
	}

	var (
		job      *models.Job
		proposal *models.Proposal
	)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		job, err = tx.Jobs().GetForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		proposal = &models.Proposal{
			JobID:        job.ID,
			FreelancerID: actor.ID,
			Message:      message,
			Status:       models.ProposalPending,
		}
		return tx.Proposals().Create(ctx, proposal)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.log.InfoContext(ctx, "proposal submitted",
		slog.String("proposal_id", proposal.ID.String()),
		slog.String("job_id", job.ID.String()),
		slog.String("freelancer_id", actor.ID.String()),
	)
	s.notify(ctx, job.OwnerID, models.NotifProposalSubmitted, map[string]any{
		"job_id":        job.ID,
		"job_title":     job.Title,
		"proposal_id":   proposal.ID,
		"freelancer_id": actor.ID,
	})
	return proposal.ID, nil
}

func (s *Service) ListProposalsForJob(ctx context.Context, jobID uuid.UUID) ([]models.ProposalView, error) {
	if _, err := s.store.Jobs().GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.Proposals().ListByJobs(ctx, []uuid.UUID{jobID})
}

// UpdateProposalStatus accepts or rejects a proposal on behalf of the job
// owner or an admin. Other proposals of the job are left untouched.
func (s *Service) UpdateProposalStatus(ctx context.Context, actor models.Actor, jobID, proposalID uuid.UUID, status models.ProposalStatus) error {
	if status != models.ProposalAccepted && status != models.ProposalRejected {
		return apperrors.ValidationFields(map[string][]string{
			"status": {"Status must be accepted or rejected"},
		})
	}

	var proposal *models.Proposal
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		job, err := tx.Jobs().GetByID(ctx, jobID)
		if err != nil {
			return err
		}
		if !auth.CanManageProposal(actor.Role, actor.ID, job.OwnerID) {
			return apperrors.Unauthorized("Not allowed to manage proposals of this job")
		}

		proposal, err = tx.Proposals().GetForUpdate(ctx, jobID, proposalID)
		if err != nil {
			return err
		}
		if s.strict && proposal.Status.Terminal() {
			return apperrors.Conflict("Proposal has already been " + string(proposal.Status))
		}
		return tx.Proposals().UpdateStatus(ctx, proposal.ID, status)
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "proposal status updated",
		slog.String("proposal_id", proposalID.String()),
		slog.String("from", string(proposal.Status)),
		slog.String("to", string(status)),
		slog.String("actor_id", actor.ID.String()),
	)
	s.notify(ctx, proposal.FreelancerID, models.NotifProposalStatusChanged, map[string]any{
		"job_id":      jobID,
		"proposal_id": proposalID,
		"status":      status,
	})
	return nil
}
