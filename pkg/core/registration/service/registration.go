package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"rcb-marathon/pkg/common/clock"
	apperrors "rcb-marathon/pkg/common/errors"
	eventmodel "rcb-marathon/pkg/core/event/model"
	"rcb-marathon/pkg/core/registration/model"
	"rcb-marathon/pkg/core/registration/repository/dao"
)

// EventLookup is the part of the event catalogue registrations depend on.
type EventLookup interface {
	GetEvent(ctx context.Context, id int64) (eventmodel.Event, error)
	GetCategory(ctx context.Context, eventID, categoryID int64) (eventmodel.Category, error)
}

type RegistrationService struct {
	repo   dao.RegistrationRepository
	events EventLookup
	clock  clock.Clock
}

func NewRegistrationService(repo dao.RegistrationRepository, events EventLookup, clk clock.Clock) *RegistrationService {
	return &RegistrationService{repo: repo, events: events, clock: clk}
}

// CreateInput mirrors the body assembled by the booking wizard.
type CreateInput struct {
	UserID int64

	FirstName    string
	LastName     string
	Email        string
	Phone        string
	BirthDate    string
	Gender       string
	BloodGroup   string
	FitnessLevel string

	Allergies             string
	Medications           string
	DietaryRestrictions   string
	HasDisability         bool
	DisabilityDescription string

	EmergencyContactName         string
	EmergencyContactRelationship string
	EmergencyContactPhone        string
	EmergencyContactEmail        string

	Division string
	District string
	Upazilla string

	EventID    int64
	CategoryID int64
	TShirtSize string
	Notes      string

	PaymentMethod string
	TransactionID string
	PaymentAmount float64
	PaymentDate   time.Time
}

// Details is a registration joined with its event and category for the
// confirmation view.
type Details struct {
	Registration model.Registration
	Event        eventmodel.Event
	Category     eventmodel.Category
}

func (s *RegistrationService) Create(ctx context.Context, in CreateInput) (model.Registration, error) {
	if err := validateCreate(in); err != nil {
		return model.Registration{}, err
	}

	event, err := s.events.GetEvent(ctx, in.EventID)
	if err != nil {
		return model.Registration{}, err
	}
	if !event.RegistrationOpen(s.clock.Now()) {
		return model.Registration{}, apperrors.ErrEventClosed
	}

	category, err := s.events.GetCategory(ctx, in.EventID, in.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return model.Registration{}, apperrors.ErrCategoryMismatch
		}
		return model.Registration{}, err
	}
	if !category.HasCapacity() {
		return model.Registration{}, apperrors.ErrCategoryFull
	}

	used, err := s.repo.IsTransactionUsed(ctx, in.TransactionID)
	if err != nil {
		return model.Registration{}, err
	}
	if used {
		return model.Registration{}, apperrors.ErrDuplicateTransaction
	}

	paidAt := in.PaymentDate
	if paidAt.IsZero() {
		paidAt = s.clock.Now()
	}

	reg := model.Registration{
		UserID:                       in.UserID,
		EventID:                      in.EventID,
		CategoryID:                   in.CategoryID,
		FirstName:                    strings.TrimSpace(in.FirstName),
		LastName:                     strings.TrimSpace(in.LastName),
		Email:                        strings.TrimSpace(in.Email),
		Phone:                        strings.TrimSpace(in.Phone),
		BirthDate:                    in.BirthDate,
		Gender:                       in.Gender,
		BloodGroup:                   in.BloodGroup,
		FitnessLevel:                 in.FitnessLevel,
		Allergies:                    in.Allergies,
		Medications:                  in.Medications,
		DietaryRestrictions:          in.DietaryRestrictions,
		HasDisability:                in.HasDisability,
		DisabilityDescription:        in.DisabilityDescription,
		EmergencyContactName:         in.EmergencyContactName,
		EmergencyContactRelationship: in.EmergencyContactRelationship,
		EmergencyContactPhone:        in.EmergencyContactPhone,
		EmergencyContactEmail:        in.EmergencyContactEmail,
		Division:                     in.Division,
		District:                     in.District,
		Upazilla:                     in.Upazilla,
		TShirtSize:                   in.TShirtSize,
		Notes:                        in.Notes,
		Status:                       model.StatusConfirmed,
		Payment: model.Payment{
			Method:        in.PaymentMethod,
			TransactionID: in.TransactionID,
			Amount:        in.PaymentAmount,
			Status:        model.PaymentCompleted,
			PaidAt:        paidAt.UTC(),
		},
	}

	if err := s.repo.Create(ctx, &reg); err != nil {
		return model.Registration{}, err
	}
	return reg, nil
}

// Get returns the registration details visible to the caller: its owner or an
// admin.
func (s *RegistrationService) Get(ctx context.Context, id, callerID int64, isAdmin bool) (Details, error) {
	if id <= 0 {
		return Details{}, apperrors.ErrRegistrationNotFound
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Details{}, err
	}
	if !isAdmin && reg.UserID != callerID {
		return Details{}, apperrors.ErrForbidden
	}

	event, err := s.events.GetEvent(ctx, reg.EventID)
	if err != nil {
		return Details{}, err
	}
	category, err := s.events.GetCategory(ctx, reg.EventID, reg.CategoryID)
	if err != nil {
		return Details{}, err
	}
	return Details{Registration: reg, Event: event, Category: category}, nil
}

func validateCreate(in CreateInput) error {
	required := []struct {
		field string
		value string
	}{
		{"firstName", in.FirstName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"birthDate", in.BirthDate},
		{"gender", in.Gender},
		{"bloodGroup", in.BloodGroup},
		{"tshirtSize", in.TShirtSize},
		{"paymentMethod", in.PaymentMethod},
		{"transactionId", in.TransactionID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return apperrors.NewValidation(r.field, "is required")
		}
	}
	if in.EventID <= 0 {
		return apperrors.NewValidation("eventId", "is required")
	}
	if in.CategoryID <= 0 {
		return apperrors.NewValidation("categoryId", "is required")
	}
	if in.PaymentAmount < 0 {
		return apperrors.NewValidation("paymentAmount", "must not be negative")
	}
	return nil
}
