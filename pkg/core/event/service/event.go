package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"rcb-marathon/pkg/common/clock"
	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/event/model"
	"rcb-marathon/pkg/core/event/repository/dao"
)

const (
	defaultStartTime            = "06:00:00"
	defaultEventMaxParticipants = 1000
	defaultDisplayOrder         = 1

	defaultEntryFee                = 1000
	defaultCategoryMaxParticipants = 500
	defaultAgeMin                  = 18
	defaultAgeMax                  = 65
)

// 表单可能提交的日期格式
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type EventService struct {
	repo  dao.EventRepository
	clock clock.Clock
}

func NewEventService(repo dao.EventRepository, clk clock.Clock) *EventService {
	return &EventService{repo: repo, clock: clk}
}

// CreateEventInput 管理端新建赛事表单，数值字段为 nil 时使用默认值
type CreateEventInput struct {
	Name                  string
	Description           string
	EventDate             string
	Location              string
	StartTime             string
	RegistrationOpenDate  string
	RegistrationCloseDate string
	MaxParticipants       *int
	EventStatus           string
	DisplayOrder          *int
	IsFeatured            bool
	WebsiteURL            string
}

func (s *EventService) CreateEvent(ctx context.Context, in CreateEventInput) (model.Event, error) {
	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 3 {
		return model.Event{}, apperrors.NewValidation("name", "event name must be at least 3 characters")
	}
	description := strings.TrimSpace(in.Description)
	if len([]rune(description)) < 10 {
		return model.Event{}, apperrors.NewValidation("description", "description must be at least 10 characters")
	}
	eventDate, err := parseDate(in.EventDate)
	if err != nil {
		return model.Event{}, apperrors.NewValidation("eventDate", "please enter a valid date")
	}
	location := strings.TrimSpace(in.Location)
	if len([]rune(location)) < 3 {
		return model.Event{}, apperrors.NewValidation("location", "location is required")
	}
	openDate, err := parseDate(in.RegistrationOpenDate)
	if err != nil {
		return model.Event{}, apperrors.NewValidation("registrationOpenDate", "please enter a valid date")
	}
	closeDate, err := parseDate(in.RegistrationCloseDate)
	if err != nil || !closeDate.After(openDate) {
		return model.Event{}, apperrors.NewValidation("registrationCloseDate", "registration close date must be after open date")
	}

	maxParticipants := intOr(in.MaxParticipants, defaultEventMaxParticipants)
	if maxParticipants < 1 {
		return model.Event{}, apperrors.NewValidation("maxParticipants", "must be at least 1")
	}
	displayOrder := intOr(in.DisplayOrder, defaultDisplayOrder)
	if displayOrder < 0 {
		return model.Event{}, apperrors.NewValidation("displayOrder", "must not be negative")
	}

	status := in.EventStatus
	if status == "" {
		status = model.StatusUpcoming
	}
	switch status {
	case model.StatusUpcoming, model.StatusInProgress, model.StatusFinished, model.StatusCancelled:
	default:
		return model.Event{}, apperrors.NewValidation("eventStatus", "unknown event status")
	}

	website := strings.TrimSpace(in.WebsiteURL)
	if website != "" && !isHTTPURL(website) {
		return model.Event{}, apperrors.NewValidation("websiteUrl", "please enter a valid URL")
	}

	startTime := strings.TrimSpace(in.StartTime)
	if startTime == "" {
		startTime = defaultStartTime
	}

	event := model.Event{
		Name:                  name,
		Description:           description,
		EventDate:             eventDate,
		Location:              location,
		StartTime:             startTime,
		RegistrationOpenDate:  openDate,
		RegistrationCloseDate: closeDate,
		MaxParticipants:       maxParticipants,
		EventStatus:           status,
		DisplayOrder:          displayOrder,
		IsFeatured:            in.IsFeatured,
		WebsiteURL:            website,
	}
	if err := s.repo.CreateEvent(ctx, &event); err != nil {
		return model.Event{}, err
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.repo.ListEvents(ctx)
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	if id <= 0 {
		return model.Event{}, apperrors.ErrEventNotFound
	}
	return s.repo.GetEvent(ctx, id)
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ErrEventNotFound
	}
	return s.repo.DeleteEvent(ctx, id)
}

// CreateCategoryInput 管理端新建组别表单
type CreateCategoryInput struct {
	EventID         int64
	Name            string
	Distance        float64
	DistanceUnit    string
	StartTime       string
	EntryFee        *int
	MaxParticipants *int
	AgeMin          *int
	AgeMax          *int
}

func (s *EventService) CreateCategory(ctx context.Context, in CreateCategoryInput) (model.Category, error) {
	if _, err := s.GetEvent(ctx, in.EventID); err != nil {
		return model.Category{}, err
	}

	name := strings.TrimSpace(in.Name)
	if len([]rune(name)) < 2 {
		return model.Category{}, apperrors.NewValidation("name", "category name must be at least 2 characters")
	}
	if in.Distance <= 0 {
		return model.Category{}, apperrors.NewValidation("distance", "distance must be a positive number")
	}

	unit := in.DistanceUnit
	if unit == "" {
		unit = model.UnitKilometre
	}
	if unit != model.UnitKilometre && unit != model.UnitMile {
		return model.Category{}, apperrors.NewValidation("distanceUnit", "please select a distance unit")
	}

	entryFee := intOr(in.EntryFee, defaultEntryFee)
	if entryFee < 0 {
		return model.Category{}, apperrors.NewValidation("entryFee", "must not be negative")
	}
	maxParticipants := intOr(in.MaxParticipants, defaultCategoryMaxParticipants)
	if maxParticipants < 1 {
		return model.Category{}, apperrors.NewValidation("maxParticipants", "must be at least 1")
	}
	ageMin := intOr(in.AgeMin, defaultAgeMin)
	if ageMin < 0 {
		return model.Category{}, apperrors.NewValidation("ageMin", "must not be negative")
	}
	ageMax := intOr(in.AgeMax, defaultAgeMax)
	if ageMax <= ageMin {
		return model.Category{}, apperrors.NewValidation("ageMax", "maximum age must be greater than minimum age")
	}

	startTime := strings.TrimSpace(in.StartTime)
	if startTime == "" {
		startTime = defaultStartTime
	}

	category := model.Category{
		EventID:         in.EventID,
		Name:            name,
		Distance:        in.Distance,
		DistanceUnit:    unit,
		StartTime:       startTime,
		EntryFee:        entryFee,
		MaxParticipants: maxParticipants,
		AgeMin:          ageMin,
		AgeMax:          ageMax,
	}
	if err := s.repo.CreateCategory(ctx, &category); err != nil {
		return model.Category{}, err
	}
	return category, nil
}

func (s *EventService) ListCategories(ctx context.Context, eventID int64) ([]model.Category, error) {
	if _, err := s.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListCategories(ctx, eventID)
}

func (s *EventService) GetCategory(ctx context.Context, eventID, categoryID int64) (model.Category, error) {
	if categoryID <= 0 {
		return model.Category{}, apperrors.ErrCategoryNotFound
	}
	return s.repo.GetCategory(ctx, eventID, categoryID)
}

func (s *EventService) DeleteCategory(ctx context.Context, eventID, categoryID int64) error {
	if _, err := s.GetCategory(ctx, eventID, categoryID); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, eventID, categoryID)
}

// OpenForRegistration 返回当前可报名的赛事
func (s *EventService) OpenForRegistration(ctx context.Context) ([]model.Event, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	open := make([]model.Event, 0, len(events))
	for _, event := range events {
		if event.RegistrationOpen(now) {
			open = append(open, event)
		}
	}
	return open, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
