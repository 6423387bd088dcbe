package impl

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "rcb-marathon/pkg/common/errors"
	eventmodel "rcb-marathon/pkg/core/event/model"
	"rcb-marathon/pkg/core/registration/model"
	"rcb-marathon/pkg/core/registration/repository/dao"
)

type GormRegistrationRepository struct {
	db *gorm.DB
}

var _ dao.RegistrationRepository = (*GormRegistrationRepository)(nil)

func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

func (r *GormRegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category eventmodel.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND event_id = ?", reg.CategoryID, reg.EventID).
			First(&category).Error; err != nil {
			return apperrors.WrapGormError(err, apperrors.ErrCategoryMismatch)
		}

		if !category.HasCapacity() {
			return apperrors.ErrCategoryFull
		}

		result := tx.Model(&eventmodel.Category{}).
			Where("id = ? AND current_participants < max_participants", category.ID).
			Update("current_participants", gorm.Expr("current_participants + ?", 1))
		if result.Error != nil {
			return fmt.Errorf("reserve slot: %w", apperrors.WrapGormError(result.Error, nil))
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrCategoryFull
		}

		if err := tx.Omit("Payment").Create(reg).Error; err != nil {
			return fmt.Errorf("create registration: %w", apperrors.WrapGormError(err, nil))
		}

		// 支付记录单独插入，关联写入会变成 upsert 而吞掉交易号冲突
		payment := reg.Payment
		payment.RegistrationID = reg.ID
		if err := tx.Create(&payment).Error; err != nil {
			if apperrors.IsDuplicateError(err) {
				return apperrors.ErrDuplicateTransaction
			}
			return fmt.Errorf("create payment: %w", apperrors.WrapGormError(err, nil))
		}
		reg.Payment = payment
		return nil
	})
}

func (r *GormRegistrationRepository) GetByID(ctx context.Context, id int64) (model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Payment").
		First(&reg, id).Error
	if err != nil {
		return model.Registration{}, apperrors.WrapGormError(err, apperrors.ErrRegistrationNotFound)
	}
	return reg, nil
}

func (r *GormRegistrationRepository) IsTransactionUsed(ctx context.Context, transactionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("transaction_id = ?", transactionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check transaction: %w", apperrors.WrapGormError(err, nil))
	}
	return count > 0, nil
}
