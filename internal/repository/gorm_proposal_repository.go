package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const msgProposalNotFound = "Proposal not found"

type gormProposalRepository struct {
	db *gorm.DB
}

type proposalRow struct {
	ID              uuid.UUID             `gorm:"column:id"`
	JobID           uuid.UUID             `gorm:"column:job_id"`
	FreelancerID    uuid.UUID             `gorm:"column:freelancer_id"`
	FreelancerName  string                `gorm:"column:freelancer_name"`
	FreelancerEmail string                `gorm:"column:freelancer_email"`
	Message         string                `gorm:"column:message"`
	Status          models.ProposalStatus `gorm:"column:status"`
	CreatedAt       time.Time             `gorm:"column:created_at"`
}

func (r *gormProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	return mapErr(r.db.WithContext(ctx).Create(p).Error, msgProposalNotFound)
}

func (r *gormProposalRepository) GetForUpdate(ctx context.Context, jobID, id uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND job_id = ?", id, jobID).
		First(&p).Error; err != nil {
		return nil, mapErr(err, msgProposalNotFound)
	}
	return &p, nil
}

func (r *gormProposalRepository) ListByJobs(ctx context.Context, jobIDs []uuid.UUID) ([]models.ProposalView, error) {
	out := []models.ProposalView{}
	if len(jobIDs) == 0 {
		return out, nil
	}

	var rows []proposalRow
	err := r.db.WithContext(ctx).
		Table("proposals AS p").
		Select("p.id, p.job_id, p.freelancer_id, u.name AS freelancer_name, u.email AS freelancer_email, p.message, p.status, p.created_at").
		Joins("JOIN users u ON u.id = p.freelancer_id").
		Where("p.job_id IN ?", jobIDs).
		Order("p.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, mapErr(err, msgProposalNotFound)
	}

	for _, row := range rows {
		out = append(out, models.ProposalView(row))
	}
	return out, nil
}

func (r *gormProposalRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProposalStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Proposal{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return mapErr(res.Error, msgProposalNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgProposalNotFound)
	}
	return nil
}

func (r *gormProposalRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.Proposal{}).Error, msgProposalNotFound)
}

func (r *gormProposalRepository) DeleteByJobOwner(ctx context.Context, ownerID uuid.UUID) error {
	owned := r.db.Model(&models.Job{}).Select("id").Where("owner_id = ?", ownerID)
	return mapErr(r.db.WithContext(ctx).Where("job_id IN (?)", owned).Delete(&models.Proposal{}).Error, msgProposalNotFound)
}

func (r *gormProposalRepository) DeleteByFreelancer(ctx context.Context, freelancerID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("freelancer_id = ?", freelancerID).Delete(&models.Proposal{}).Error, msgProposalNotFound)
}
