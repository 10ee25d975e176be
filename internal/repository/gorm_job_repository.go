package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const msgJobNotFound = "Job not found"

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type gormJobRepository struct {
	db *gorm.DB
}

type jobRow struct {
	ID          uuid.UUID        `gorm:"column:id"`
	Title       string           `gorm:"column:title"`
	Description string           `gorm:"column:description"`
	Budget      float64          `gorm:"column:budget"`
	OwnerID     uuid.UUID        `gorm:"column:owner_id"`
	ClientName  string           `gorm:"column:client_name"`
	Status      models.JobStatus `gorm:"column:status"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
}

func (r jobRow) view() models.JobView {
	return models.JobView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		OwnerID:     r.OwnerID,
		ClientName:  r.ClientName,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		Proposals:   []models.ProposalView{},
	}
}

func (r *gormJobRepository) Create(ctx context.Context, job *models.Job) error {
	return mapErr(r.db.WithContext(ctx).Create(job).Error, msgJobNotFound)
}

func (r *gormJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return &job, nil
}

func (r *gormJobRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&job, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}
	return &job, nil
}

func (r *gormJobRepository) List(ctx context.Context, f models.JobFilter) ([]models.JobView, error) {
	q := r.db.WithContext(ctx).
		Table("jobs AS j").
		Select("j.id, j.title, j.description, j.budget, j.owner_id, u.name AS client_name, j.status, j.created_at").
		Joins("JOIN users u ON u.id = j.owner_id")

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(`(LOWER(j.title) LIKE ? ESCAPE '\' OR LOWER(j.description) LIKE ? ESCAPE '\' OR LOWER(u.name) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if f.MinBudget > 0 {
		q = q.Where("j.budget >= ?", f.MinBudget)
	}
	if f.MaxBudget > 0 {
		q = q.Where("j.budget <= ?", f.MaxBudget)
	}
	if f.Status != "" {
		q = q.Where("j.status = ?", f.Status)
	}
	if f.OwnerID != uuid.Nil {
		q = q.Where("j.owner_id = ?", f.OwnerID)
	}
	if f.AwardedTo != uuid.Nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM proposals p WHERE p.job_id = j.id AND p.freelancer_id = ? AND p.status = ?)",
			f.AwardedTo, models.ProposalAccepted,
		)
	}

	var rows []jobRow
	if err := q.Order("j.created_at DESC").Scan(&rows).Error; err != nil {
		return nil, mapErr(err, msgJobNotFound)
	}

	out := make([]models.JobView, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.view())
	}
	return out, nil
}

func (r *gormJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Job{})
	if res.Error != nil {
		return mapErr(res.Error, msgJobNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgJobNotFound)
	}
	return nil
}

func (r *gormJobRepository) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&models.Job{}).Error, msgJobNotFound)
}
