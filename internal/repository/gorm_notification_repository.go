package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const msgNotificationNotFound = "Notification not found"

type gormNotificationRepository struct {
	db *gorm.DB
}

func (r *gormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return mapErr(r.db.WithContext(ctx).Create(n).Error, msgNotificationNotFound)
}

func (r *gormNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	list := []models.Notification{}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	if err := q.Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, mapErr(err, msgNotificationNotFound)
	}
	return list, nil
}

// MarkRead only touches notifications owned by userID.
func (r *gormNotificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return mapErr(res.Error, msgNotificationNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgNotificationNotFound)
	}
	return nil
}

func (r *gormNotificationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return mapErr(r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{}).Error, msgNotificationNotFound)
}
