package impl

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/user/model"
	"rcb-marathon/pkg/core/user/repository/dao"
)

type GormUserRepository struct {
	db *gorm.DB
}

var _ dao.UserRepository = (*GormUserRepository)(nil)

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) QueryByID(ctx context.Context, id int64) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

func (r *GormUserRepository) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Select("id", "email", "full_name", "password_hash", "role", "version").
		Where("email = ? AND is_active = ?", email, true).
		First(&user).Error
	if err != nil {
		return model.User{}, apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// Check email existence with active status
func (r *GormUserRepository) IsEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND is_active = ?", email, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", apperrors.WrapGormError(err, nil))
	}
	return count > 0, nil
}

// Create new user with transaction
func (r *GormUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.ErrEmailTaken
			}
			return fmt.Errorf("user creation failed: %w", apperrors.WrapGormError(err, nil))
		}
		return nil
	})
}

// Update password with version control
func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID int64, newPwdHash string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND is_active = ?", userID, true).
			First(&user).Error; err != nil {
			return apperrors.WrapGormError(err, apperrors.ErrUserNotFound)
		}

		result := tx.Model(&model.User{}).
			Where("id = ? AND version = ?", userID, user.Version).
			Updates(map[string]interface{}{
				"password_hash": newPwdHash,
				"version":       user.Version + 1,
				"updated_at":    time.Now(),
			})

		if result.Error != nil {
			return fmt.Errorf("password update failed: %w", apperrors.WrapGormError(result.Error, nil))
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrUserNotFound
		}
		return nil
	})
}
