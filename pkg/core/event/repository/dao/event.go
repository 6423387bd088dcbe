package dao

import (
	"context"

	"rcb-marathon/pkg/core/event/model"
)

type EventRepository interface {
	ListEvents(ctx context.Context) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (model.Event, error)
	CreateEvent(ctx context.Context, event *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error

	ListCategories(ctx context.Context, eventID int64) ([]model.Category, error)
	GetCategory(ctx context.Context, eventID, categoryID int64) (model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, eventID, categoryID int64) error
}
