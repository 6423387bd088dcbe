package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "rcb-marathon/pkg/common/errors"
	regmodel "rcb-marathon/pkg/core/registration/model"
	regservice "rcb-marathon/pkg/core/registration/service"
	"rcb-marathon/pkg/web/middleware"
	"rcb-marathon/pkg/web/model"
)

type RegistrationService interface {
	Create(ctx context.Context, in regservice.CreateInput) (regmodel.Registration, error)
	Get(ctx context.Context, id, callerID int64, isAdmin bool) (regservice.Details, error)
}

type RegistrationHandler struct {
	registrations RegistrationService
}

func NewRegistrationHandler(registrations RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

// Create 提交报名，报名归属于当前会话用户
func (h *RegistrationHandler) Create(ctx context.Context, c *app.RequestContext) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(ctx, c, apperrors.ErrSessionInvalid)
		return
	}

	var req model.CreateRegistrationReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	var paidAt time.Time
	if v := strings.TrimSpace(req.PaymentDate); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(ctx, c, apperrors.NewValidation("paymentDate", "must be an RFC3339 timestamp"))
			return
		}
		paidAt = t
	}

	reg, err := h.registrations.Create(ctx, regservice.CreateInput{
		UserID:                       id.UserID,
		FirstName:                    req.FirstName,
		LastName:                     req.LastName,
		Email:                        req.Email,
		Phone:                        req.Phone,
		BirthDate:                    req.BirthDate,
		Gender:                       req.Gender,
		BloodGroup:                   req.BloodGroup,
		FitnessLevel:                 req.FitnessLevel,
		Allergies:                    req.Allergies,
		Medications:                  req.Medications,
		DietaryRestrictions:          req.DietaryRestrictions,
		HasDisability:                req.HasDisability,
		DisabilityDescription:        req.DisabilityDescription,
		EmergencyContactName:         req.EmergencyContactName,
		EmergencyContactRelationship: req.EmergencyContactRelationship,
		EmergencyContactPhone:        req.EmergencyContactPhone,
		EmergencyContactEmail:        req.EmergencyContactEmail,
		Division:                     req.Division,
		District:                     req.District,
		Upazilla:                     req.Upazilla,
		EventID:                      int64(req.EventID),
		CategoryID:                   int64(req.CategoryID),
		TShirtSize:                   req.TShirtSize,
		Notes:                        req.Notes,
		PaymentMethod:                req.PaymentMethod,
		TransactionID:                req.TransactionID,
		PaymentAmount:                req.PaymentAmount,
		PaymentDate:                  paidAt,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	var res model.CreateRegistrationRes
	res.Success = true
	res.Data.Registration = model.RegistrationRes{
		ID:        reg.ID,
		Status:    reg.Status,
		CreatedAt: reg.CreatedAt.UTC().Format(time.RFC3339),
	}
	c.JSON(http.StatusCreated, res)
}

// Get 报名详情，仅本人或管理员可见
func (h *RegistrationHandler) Get(ctx context.Context, c *app.RequestContext) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(ctx, c, apperrors.ErrSessionInvalid)
		return
	}
	regID, err := pathID(c, "id", apperrors.ErrRegistrationNotFound)
	if err != nil {
		respondError(ctx, c, err)
		return
	}

	details, err := h.registrations.Get(ctx, regID, id.UserID, id.IsAdmin())
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, utils.H{"success": true, "data": toDetailsRes(details)})
}

func toDetailsRes(d regservice.Details) model.RegistrationDetailsRes {
	reg := d.Registration
	return model.RegistrationDetailsRes{
		ID:     reg.ID,
		Status: reg.Status,
		Date:   reg.CreatedAt.UTC().Format(time.RFC3339),
		Runner: model.RunnerRes{ID: reg.UserID, Name: reg.FullName(), Email: reg.Email},
		Event: model.EventSummaryRes{
			ID:   d.Event.ID,
			Name: d.Event.Name,
			Date: d.Event.EventDate.UTC().Format("2006-01-02"),
		},
		Category: model.CategorySummaryRes{
			ID:       d.Category.ID,
			Name:     d.Category.Name,
			Distance: d.Category.Distance,
			Unit:     d.Category.DistanceUnit,
		},
		Payment: model.PaymentRes{
			ID:            reg.Payment.ID,
			Amount:        reg.Payment.Amount,
			Status:        reg.Payment.Status,
			Method:        reg.Payment.Method,
			TransactionID: reg.Payment.TransactionID,
		},
	}
}
