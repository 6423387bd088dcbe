package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rcb-marathon/pkg/common/clock"
	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/event/model"
)

type fakeEventRepo struct {
	events     map[int64]model.Event
	categories map[int64]model.Category
	nextID     int64

	createdEvent    model.Event
	createdCategory model.Category
	deletedCategory int64
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events:     make(map[int64]model.Event),
		categories: make(map[int64]model.Category),
	}
}

func (f *fakeEventRepo) ListEvents(ctx context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(f.events))
	for id := int64(1); id <= f.nextID; id++ {
		if e, ok := f.events[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return model.Event{}, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) CreateEvent(ctx context.Context, event *model.Event) error {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = *event
	f.createdEvent = *event
	return nil
}

func (f *fakeEventRepo) DeleteEvent(ctx context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) ListCategories(ctx context.Context, eventID int64) ([]model.Category, error) {
	var out []model.Category
	for _, c := range f.categories {
		if c.EventID == eventID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) GetCategory(ctx context.Context, eventID, categoryID int64) (model.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok || c.EventID != eventID {
		return model.Category{}, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

func (f *fakeEventRepo) CreateCategory(ctx context.Context, category *model.Category) error {
	f.nextID++
	category.ID = f.nextID
	f.categories[category.ID] = *category
	f.createdCategory = *category
	return nil
}

func (f *fakeEventRepo) DeleteCategory(ctx context.Context, eventID, categoryID int64) error {
	f.deletedCategory = categoryID
	delete(f.categories, categoryID)
	return nil
}

func intPtr(v int) *int { return &v }

func validEventInput() CreateEventInput {
	return CreateEventInput{
		Name:                  "Dhaka Marathon 2025",
		Description:           "A full day of running through the city.",
		EventDate:             "2025-03-15",
		Location:              "Dhaka",
		RegistrationOpenDate:  "2025-01-01",
		RegistrationCloseDate: "2025-03-01T23:59",
	}
}

func TestEventService_CreateEventDefaults(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())

	got, err := svc.CreateEvent(context.Background(), validEventInput())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	if got.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if got.EventStatus != model.StatusUpcoming {
		t.Fatalf("expected upcoming status, got %q", got.EventStatus)
	}
	if got.StartTime != "06:00:00" || got.MaxParticipants != 1000 || got.DisplayOrder != 1 {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if !got.EventDate.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected event date %v", got.EventDate)
	}
}

func TestEventService_CreateEventValidation(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), clock.NewSystem())

	tests := []struct {
		name  string
		field string
		edit  func(*CreateEventInput)
	}{
		{name: "short name", field: "name", edit: func(in *CreateEventInput) { in.Name = "Ru" }},
		{name: "short description", field: "description", edit: func(in *CreateEventInput) { in.Description = "short" }},
		{name: "bad event date", field: "eventDate", edit: func(in *CreateEventInput) { in.EventDate = "soon" }},
		{name: "missing location", field: "location", edit: func(in *CreateEventInput) { in.Location = "" }},
		{name: "close before open", field: "registrationCloseDate", edit: func(in *CreateEventInput) { in.RegistrationCloseDate = "2024-12-31" }},
		{name: "missing close date", field: "registrationCloseDate", edit: func(in *CreateEventInput) { in.RegistrationCloseDate = "" }},
		{name: "zero participants", field: "maxParticipants", edit: func(in *CreateEventInput) { in.MaxParticipants = intPtr(0) }},
		{name: "negative display order", field: "displayOrder", edit: func(in *CreateEventInput) { in.DisplayOrder = intPtr(-1) }},
		{name: "unknown status", field: "eventStatus", edit: func(in *CreateEventInput) { in.EventStatus = "postponed" }},
		{name: "bad url", field: "websiteUrl", edit: func(in *CreateEventInput) { in.WebsiteURL = "not a url" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEventInput()
			tt.edit(&in)
			_, err := svc.CreateEvent(context.Background(), in)
			var vErr *apperrors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, vErr.Field)
			}
		})
	}
}

func TestEventService_CreateCategory(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, validEventInput())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	got, err := svc.CreateCategory(ctx, CreateCategoryInput{EventID: event.ID, Name: "Half Marathon", Distance: 21.0975})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if got.DistanceUnit != "km" || got.EntryFee != 1000 || got.MaxParticipants != 500 || got.AgeMin != 18 || got.AgeMax != 65 {
		t.Fatalf("unexpected defaults %+v", got)
	}

	// zero entry fee is allowed when given explicitly
	free, err := svc.CreateCategory(ctx, CreateCategoryInput{EventID: event.ID, Name: "3K Fun Run", Distance: 3, EntryFee: intPtr(0)})
	if err != nil {
		t.Fatalf("create free category: %v", err)
	}
	if free.EntryFee != 0 {
		t.Fatalf("expected zero fee, got %d", free.EntryFee)
	}
}

func TestEventService_CreateCategoryValidation(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, validEventInput())
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	if _, err := svc.CreateCategory(ctx, CreateCategoryInput{EventID: 99, Name: "10K", Distance: 10}); !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}

	tests := []struct {
		name string
		in   CreateCategoryInput
	}{
		{name: "short name", in: CreateCategoryInput{Name: "X", Distance: 10}},
		{name: "zero distance", in: CreateCategoryInput{Name: "10K", Distance: 0}},
		{name: "bad unit", in: CreateCategoryInput{Name: "10K", Distance: 10, DistanceUnit: "m"}},
		{name: "negative fee", in: CreateCategoryInput{Name: "10K", Distance: 10, EntryFee: intPtr(-5)}},
		{name: "age max equal min", in: CreateCategoryInput{Name: "10K", Distance: 10, AgeMin: intPtr(30), AgeMax: intPtr(30)}},
		{name: "age max below default min", in: CreateCategoryInput{Name: "10K", Distance: 10, AgeMax: intPtr(16)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.EventID = event.ID
			if _, err := svc.CreateCategory(ctx, in); !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestEventService_DeleteCategoryRequiresOwnership(t *testing.T) {
	repo := newFakeEventRepo()
	svc := NewEventService(repo, clock.NewSystem())
	ctx := context.Background()

	first, _ := svc.CreateEvent(ctx, validEventInput())
	second, _ := svc.CreateEvent(ctx, validEventInput())
	category, err := svc.CreateCategory(ctx, CreateCategoryInput{EventID: first.ID, Name: "10K Run", Distance: 10})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	if err := svc.DeleteCategory(ctx, second.ID, category.ID); !errors.Is(err, apperrors.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if err := svc.DeleteCategory(ctx, first.ID, category.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if repo.deletedCategory != category.ID {
		t.Fatalf("expected category %d deleted", category.ID)
	}
}

func TestEventService_OpenForRegistration(t *testing.T) {
	repo := newFakeEventRepo()
	now := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := NewEventService(repo, clock.NewFixed(now))
	ctx := context.Background()

	open := validEventInput()
	if _, err := svc.CreateEvent(ctx, open); err != nil {
		t.Fatalf("create open: %v", err)
	}
	closed := validEventInput()
	closed.RegistrationOpenDate = "2024-01-01"
	closed.RegistrationCloseDate = "2024-02-01"
	if _, err := svc.CreateEvent(ctx, closed); err != nil {
		t.Fatalf("create closed: %v", err)
	}
	cancelled := validEventInput()
	cancelled.EventStatus = model.StatusCancelled
	if _, err := svc.CreateEvent(ctx, cancelled); err != nil {
		t.Fatalf("create cancelled: %v", err)
	}

	got, err := svc.OpenForRegistration(ctx)
	if err != nil {
		t.Fatalf("open events: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only the first event, got %+v", got)
	}
}
