package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
)

const msgUserNotFound = "User not found"

type gormUserRepository struct {
	db *gorm.DB
}

func (r *gormUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("Email already exists")
		}
		return mapErr(err, msgUserNotFound)
	}
	return nil
}

func (r *gormUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapErr(err, msgUserNotFound)
	}
	return &u, nil
}

func (r *gormUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, mapErr(err, msgUserNotFound)
	}
	return &u, nil
}

func (r *gormUserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, mapErr(err, msgUserNotFound)
	}
	return users, nil
}

func (r *gormUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, email string) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": name, "email": email})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return apperrors.Conflict("Email already exists")
		}
		return mapErr(res.Error, msgUserNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgUserNotFound)
	}
	return nil
}

func (r *gormUserRepository) ToggleBan(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("banned", gorm.Expr("NOT banned"))
	if res.Error != nil {
		return false, mapErr(res.Error, msgUserNotFound)
	}
	if res.RowsAffected == 0 {
		return false, apperrors.NotFound(msgUserNotFound)
	}

	var banned bool
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Pluck("banned", &banned).Error; err != nil {
		return false, mapErr(err, msgUserNotFound)
	}
	return banned, nil
}

func (r *gormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return mapErr(res.Error, msgUserNotFound)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(msgUserNotFound)
	}
	return nil
}
