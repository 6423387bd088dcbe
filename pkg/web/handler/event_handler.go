package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "rcb-marathon/pkg/common/errors"
	eventmodel "rcb-marathon/pkg/core/event/model"
	eventservice "rcb-marathon/pkg/core/event/service"
	"rcb-marathon/pkg/web/model"
)

type EventService interface {
	ListEvents(ctx context.Context) ([]eventmodel.Event, error)
	OpenForRegistration(ctx context.Context) ([]eventmodel.Event, error)
	GetEvent(ctx context.Context, id int64) (eventmodel.Event, error)
	CreateEvent(ctx context.Context, in eventservice.CreateEventInput) (eventmodel.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, eventID int64) ([]eventmodel.Category, error)
	CreateCategory(ctx context.Context, in eventservice.CreateCategoryInput) (eventmodel.Category, error)
	DeleteCategory(ctx context.Context, eventID, categoryID int64) error
}

type EventHandler struct {
	events EventService
}

func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListEvents ?open=true 时只返回可报名的赛事
func (h *EventHandler) ListEvents(ctx context.Context, c *app.RequestContext) {
	var (
		events []eventmodel.Event
		err    error
	)
	if c.Query("open") == "true" {
		events, err = h.events.OpenForRegistration(ctx)
	} else {
		events, err = h.events.ListEvents(ctx)
	}
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	out := make([]model.EventRes, 0, len(events))
	for _, e := range events {
		out = append(out, toEventRes(e))
	}
	respondList(c, out)
}

// GetEvent 直接返回赛事对象
func (h *EventHandler) GetEvent(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "eventId", apperrors.ErrEventNotFound)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	event, err := h.events.GetEvent(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, toEventRes(event))
}

func (h *EventHandler) CreateEvent(ctx context.Context, c *app.RequestContext) {
	var req model.CreateEventReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	event, err := h.events.CreateEvent(ctx, eventservice.CreateEventInput{
		Name:                  req.Name,
		Description:           req.Description,
		EventDate:             req.EventDate,
		Location:              req.Location,
		StartTime:             req.StartTime,
		RegistrationOpenDate:  req.RegistrationOpenDate,
		RegistrationCloseDate: req.RegistrationCloseDate,
		MaxParticipants:       req.MaxParticipants,
		EventStatus:           req.EventStatus,
		DisplayOrder:          req.DisplayOrder,
		IsFeatured:            req.IsFeatured,
		WebsiteURL:            req.WebsiteURL,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.H{"success": true, "data": toEventRes(event)})
}

func (h *EventHandler) DeleteEvent(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "eventId", apperrors.ErrEventNotFound)
	if err == nil {
		err = h.events.DeleteEvent(ctx, id)
	}
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, utils.H{"success": true})
}

func (h *EventHandler) ListCategories(ctx context.Context, c *app.RequestContext) {
	id, err := pathID(c, "eventId", apperrors.ErrEventNotFound)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	categories, err := h.events.ListCategories(ctx, id)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	out := make([]model.CategoryRes, 0, len(categories))
	for _, cat := range categories {
		out = append(out, toCategoryRes(cat))
	}
	respondList(c, out)
}

func (h *EventHandler) CreateCategory(ctx context.Context, c *app.RequestContext) {
	eventID, err := pathID(c, "eventId", apperrors.ErrEventNotFound)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	var req model.CreateCategoryReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	category, err := h.events.CreateCategory(ctx, eventservice.CreateCategoryInput{
		EventID:         eventID,
		Name:            req.Name,
		Distance:        req.Distance,
		DistanceUnit:    req.DistanceUnit,
		StartTime:       req.StartTime,
		EntryFee:        req.EntryFee,
		MaxParticipants: req.MaxParticipants,
		AgeMin:          req.AgeMin,
		AgeMax:          req.AgeMax,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.H{"success": true, "data": toCategoryRes(category)})
}

func (h *EventHandler) DeleteCategory(ctx context.Context, c *app.RequestContext) {
	eventID, err := pathID(c, "eventId", apperrors.ErrEventNotFound)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	categoryID, err := pathID(c, "categoryId", apperrors.ErrCategoryNotFound)
	if err == nil {
		err = h.events.DeleteCategory(ctx, eventID, categoryID)
	}
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, utils.H{"success": true})
}

// Presets 常用组别模板，供管理端快速创建
func (h *EventHandler) Presets(ctx context.Context, c *app.RequestContext) {
	respondList(c, eventmodel.Presets())
}

func toEventRes(e eventmodel.Event) model.EventRes {
	return model.EventRes{
		EventID:               e.ID,
		Name:                  e.Name,
		Description:           e.Description,
		EventDate:             e.EventDate.UTC().Format("2006-01-02"),
		Location:              e.Location,
		StartTime:             e.StartTime,
		RegistrationOpenDate:  e.RegistrationOpenDate.UTC().Format(time.RFC3339),
		RegistrationCloseDate: e.RegistrationCloseDate.UTC().Format(time.RFC3339),
		MaxParticipants:       e.MaxParticipants,
		EventStatus:           e.EventStatus,
		DisplayOrder:          e.DisplayOrder,
		IsFeatured:            e.IsFeatured,
		WebsiteURL:            e.WebsiteURL,
	}
}

func toCategoryRes(c eventmodel.Category) model.CategoryRes {
	return model.CategoryRes{
		CategoryID:          c.ID,
		EventID:             c.EventID,
		Name:                c.Name,
		Distance:            c.Distance,
		Unit:                c.DistanceUnit,
		StartTime:           c.StartTime,
		EntryFee:            c.EntryFee,
		MaxParticipants:     c.MaxParticipants,
		CurrentParticipants: c.CurrentParticipants,
		AgeMin:              c.AgeMin,
		AgeMax:              c.AgeMax,
	}
}
