package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const msgMessageNotFound = "Message not found"

type gormMessageRepository struct {
	db *gorm.DB
}

type messageRow struct {
	ID         uuid.UUID   `gorm:"column:id"`
	JobID      uuid.UUID   `gorm:"column:job_id"`
	SenderID   uuid.UUID   `gorm:"column:sender_id"`
	SenderName string      `gorm:"column:sender_name"`
	SenderRole models.Role `gorm:"column:sender_role"`
	Text       string      `gorm:"column:text"`
	CreatedAt  time.Time   `gorm:"column:created_at"`
}

func (r *gormMessageRepository) Create(ctx context.Context, m *models.Message) error {
	return mapErr(r.db.WithContext(ctx).Create(m).Error, msgMessageNotFound)
}

func (r *gormMessageRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.MessageView, error) {
	var rows []messageRow
	err := r.db.WithContext(ctx).
		Table("messages AS m").
		Select("m.id, m.job_id, m.sender_id, u.name AS sender_name, u.role AS sender_role, m.text, m.created_at").
		Joins("JOIN users u ON u.id = m.sender_id").
		Where("m.job_id = ?", jobID).
		Order("m.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, mapErr(err, msgMessageNotFound)
	}

	out := make([]models.MessageView, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.MessageView(row))
	}
	return out, nil
}

func (r *gormMessageRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&models.Message{}).Error, msgMessageNotFound)
}

func (r *gormMessageRepository) DeleteByJobOwner(ctx context.Context, ownerID uuid.UUID) error {
	owned := r.db.Model(&models.Job{}).Select("id").Where("owner_id = ?", ownerID)
	return mapErr(r.db.WithContext(ctx).Where("job_id IN (?)", owned).Delete(&models.Message{}).Error, msgMessageNotFound)
}

func (r *gormMessageRepository) DeleteBySender(ctx context.Context, senderID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("sender_id = ?", senderID).Delete(&models.Message{}).Error, msgMessageNotFound)
}
