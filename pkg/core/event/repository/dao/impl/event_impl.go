package impl

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/event/model"
	"rcb-marathon/pkg/core/event/repository/dao"
)

type GormEventRepository struct {
	db *gorm.DB
}

var _ dao.EventRepository = (*GormEventRepository)(nil)

func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

func (r *GormEventRepository) ListEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Order("display_order ASC").
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list events: %w", apperrors.WrapGormError(err, nil))
	}
	return events, nil
}

func (r *GormEventRepository) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return model.Event{}, apperrors.WrapGormError(err, apperrors.ErrEventNotFound)
	}
	return event, nil
}

func (r *GormEventRepository) CreateEvent(ctx context.Context, event *model.Event) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("create event: %w", apperrors.WrapGormError(err, nil))
	}
	return nil
}

// DeleteEvent 删除赛事及其组别
func (r *GormEventRepository) DeleteEvent(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Category{}).Error; err != nil {
			return apperrors.WrapGormError(err, nil)
		}
		result := tx.Delete(&model.Event{}, id)
		if result.Error != nil {
			return apperrors.WrapGormError(result.Error, nil)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrEventNotFound
		}
		return nil
	})
}

func (r *GormEventRepository) ListCategories(ctx context.Context, eventID int64) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("distance DESC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", apperrors.WrapGormError(err, nil))
	}
	return categories, nil
}

func (r *GormEventRepository) GetCategory(ctx context.Context, eventID, categoryID int64) (model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", categoryID, eventID).
		First(&category).Error
	if err != nil {
		return model.Category{}, apperrors.WrapGormError(err, apperrors.ErrCategoryNotFound)
	}
	return category, nil
}

func (r *GormEventRepository) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", apperrors.WrapGormError(err, apperrors.ErrEventNotFound))
	}
	return nil
}

func (r *GormEventRepository) DeleteCategory(ctx context.Context, eventID, categoryID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND event_id = ?", categoryID, eventID).
		Delete(&model.Category{})
	if result.Error != nil {
		return apperrors.WrapGormError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}
