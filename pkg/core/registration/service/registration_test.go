package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rcb-marathon/pkg/common/clock"
	apperrors "rcb-marathon/pkg/common/errors"
	eventmodel "rcb-marathon/pkg/core/event/model"
	"rcb-marathon/pkg/core/registration/model"
)

type fakeEvents struct {
	events     map[int64]eventmodel.Event
	categories map[int64]eventmodel.Category
}

func (f *fakeEvents) GetEvent(ctx context.Context, id int64) (eventmodel.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return eventmodel.Event{}, apperrors.ErrEventNotFound
	}
	return e, nil
}

func (f *fakeEvents) GetCategory(ctx context.Context, eventID, categoryID int64) (eventmodel.Category, error) {
	c, ok := f.categories[categoryID]
	if !ok || c.EventID != eventID {
		return eventmodel.Category{}, apperrors.ErrCategoryNotFound
	}
	return c, nil
}

type fakeRegistrationRepo struct {
	created  model.Registration
	byID     map[int64]model.Registration
	usedTxns map[string]bool

	createErr error
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	if f.createErr != nil {
		return f.createErr
	}
	reg.ID = 42
	f.created = *reg
	f.byID[reg.ID] = *reg
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id int64) (model.Registration, error) {
	reg, ok := f.byID[id]
	if !ok {
		return model.Registration{}, apperrors.ErrRegistrationNotFound
	}
	return reg, nil
}

func (f *fakeRegistrationRepo) IsTransactionUsed(ctx context.Context, transactionID string) (bool, error) {
	return f.usedTxns[transactionID], nil
}

var testNow = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func newFixture() (*RegistrationService, *fakeRegistrationRepo, *fakeEvents) {
	events := &fakeEvents{
		events: map[int64]eventmodel.Event{
			1: {
				ID:                    1,
				Name:                  "Dhaka Marathon 2025",
				EventStatus:           eventmodel.StatusUpcoming,
				RegistrationOpenDate:  testNow.Add(-24 * time.Hour),
				RegistrationCloseDate: testNow.Add(24 * time.Hour),
			},
			2: {
				ID:                    2,
				Name:                  "Past Run",
				EventStatus:           eventmodel.StatusFinished,
				RegistrationOpenDate:  testNow.Add(-48 * time.Hour),
				RegistrationCloseDate: testNow.Add(-24 * time.Hour),
			},
		},
		categories: map[int64]eventmodel.Category{
			3: {ID: 3, EventID: 1, Name: "Half Marathon", MaxParticipants: 10, CurrentParticipants: 2},
			4: {ID: 4, EventID: 1, Name: "10K Run", MaxParticipants: 5, CurrentParticipants: 5},
			5: {ID: 5, EventID: 2, Name: "5K Run", MaxParticipants: 5},
		},
	}
	repo := &fakeRegistrationRepo{byID: make(map[int64]model.Registration), usedTxns: make(map[string]bool)}
	return NewRegistrationService(repo, events, clock.NewFixed(testNow)), repo, events
}

func validInput() CreateInput {
	return CreateInput{
		UserID:        7,
		FirstName:     "John",
		LastName:      "Doe",
		Email:         "john@example.com",
		Phone:         "01700000000",
		BirthDate:     "1990-05-01",
		Gender:        "male",
		BloodGroup:    "O+",
		FitnessLevel:  "intermediate",
		Allergies:     "None",
		TShirtSize:    "M",
		EventID:       1,
		CategoryID:    3,
		PaymentMethod: "bKash",
		TransactionID: "TXN1234567890",
		PaymentAmount: 1500,
	}
}

func TestRegistrationService_Create(t *testing.T) {
	svc, repo, _ := newFixture()

	reg, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if reg.ID != 42 {
		t.Fatalf("expected id from repo, got %d", reg.ID)
	}
	if repo.created.Status != model.StatusConfirmed {
		t.Fatalf("expected confirmed status, got %q", repo.created.Status)
	}
	if repo.created.Payment.TransactionID != "TXN1234567890" || repo.created.Payment.Amount != 1500 {
		t.Fatalf("unexpected payment %+v", repo.created.Payment)
	}
	if !repo.created.Payment.PaidAt.Equal(testNow) {
		t.Fatalf("expected paid at to default to now, got %v", repo.created.Payment.PaidAt)
	}
}

func TestRegistrationService_CreateRejections(t *testing.T) {
	tests := []struct {
		name string
		edit func(*CreateInput)
		want error
	}{
		{name: "unknown event", edit: func(in *CreateInput) { in.EventID = 9 }, want: apperrors.ErrEventNotFound},
		{name: "closed event", edit: func(in *CreateInput) { in.EventID = 2; in.CategoryID = 5 }, want: apperrors.ErrEventClosed},
		{name: "category of another event", edit: func(in *CreateInput) { in.CategoryID = 5 }, want: apperrors.ErrCategoryMismatch},
		{name: "full category", edit: func(in *CreateInput) { in.CategoryID = 4 }, want: apperrors.ErrCategoryFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newFixture()
			in := validInput()
			tt.edit(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegistrationService_CreateValidation(t *testing.T) {
	svc, _, _ := newFixture()

	for _, edit := range []func(*CreateInput){
		func(in *CreateInput) { in.FirstName = " " },
		func(in *CreateInput) { in.TShirtSize = "" },
		func(in *CreateInput) { in.TransactionID = "" },
		func(in *CreateInput) { in.CategoryID = 0 },
		func(in *CreateInput) { in.PaymentAmount = -1 },
	} {
		in := validInput()
		edit(&in)
		if _, err := svc.Create(context.Background(), in); !apperrors.IsValidation(err) {
			t.Fatalf("expected validation error, got %v", err)
		}
	}
}

func TestRegistrationService_CreateDuplicateTransaction(t *testing.T) {
	svc, repo, _ := newFixture()
	repo.usedTxns["TXN1234567890"] = true

	if _, err := svc.Create(context.Background(), validInput()); !errors.Is(err, apperrors.ErrDuplicateTransaction) {
		t.Fatalf("expected ErrDuplicateTransaction, got %v", err)
	}
}

func TestRegistrationService_Get(t *testing.T) {
	svc, _, _ := newFixture()
	ctx := context.Background()

	reg, err := svc.Create(ctx, validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	details, err := svc.Get(ctx, reg.ID, 7, false)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if details.Event.Name != "Dhaka Marathon 2025" || details.Category.Name != "Half Marathon" {
		t.Fatalf("unexpected details %+v", details)
	}

	if _, err := svc.Get(ctx, reg.ID, 8, false); !errors.Is(err, apperrors.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, reg.ID, 8, true); err != nil {
		t.Fatalf("get as admin: %v", err)
	}
	if _, err := svc.Get(ctx, 999, 7, false); !errors.Is(err, apperrors.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
}
