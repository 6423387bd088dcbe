package booking

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rcb-marathon/pkg/common/clock"
	"rcb-marathon/pkg/web/model"
)

const (
	// TransactionPrefix 自动生成的交易号前缀，后接纯数字
	TransactionPrefix = "TXN"
	transactionDigits = 10

	noneValue = "None"
)

var ErrInvalidNumber = errors.New("booking: value is not a number")

type Assembler struct {
	clock clock.Clock
	digit func() int
}

func NewAssembler(clk clock.Clock) *Assembler {
	return &Assembler{
		clock: clk,
		digit: func() int { return rand.IntN(10) },
	}
}

// Assemble 将表单草稿转换为报名接口的请求体
func (a *Assembler) Assemble(d *Draft) (model.CreateRegistrationReq, error) {
	eventID, err := parseInt("eventId", d.EventID)
	if err != nil {
		return model.CreateRegistrationReq{}, err
	}
	categoryID, err := parseInt("categoryId", d.CategoryID)
	if err != nil {
		return model.CreateRegistrationReq{}, err
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(d.PaymentAmount), 64)
	if err != nil {
		return model.CreateRegistrationReq{}, fmt.Errorf("%w: paymentAmount %q", ErrInvalidNumber, d.PaymentAmount)
	}

	first, last := SplitName(d.FullName)

	txn := strings.TrimSpace(d.TransactionID)
	if txn == "" {
		txn = a.TransactionID()
	}

	return model.CreateRegistrationReq{
		FirstName:    first,
		LastName:     last,
		Email:        d.Email,
		Phone:        d.Phone,
		BirthDate:    d.BirthDate,
		Gender:       cases.Lower(language.Und).String(d.Gender),
		BloodGroup:   d.BloodGroup,
		FitnessLevel: d.FitnessLevel,

		Allergies:             orNone(d.Allergies),
		Medications:           orNone(d.Medications),
		DietaryRestrictions:   orNone(d.DietaryRestrictions),
		HasDisability:         d.HasDisability,
		DisabilityDescription: orNone(d.DisabilityDescription),

		EmergencyContactName:         d.Emergency.Name,
		EmergencyContactRelationship: d.Emergency.Relationship,
		EmergencyContactPhone:        d.Emergency.Phone,
		EmergencyContactEmail:        d.Emergency.Email,

		Division: d.Address.Division,
		District: d.Address.District,
		Upazilla: d.Address.Upazilla,

		EventID:    eventID,
		CategoryID: categoryID,
		TShirtSize: d.TShirtSize,
		Notes:      d.Notes,

		PaymentMethod: d.PaymentMethod,
		TransactionID: txn,
		PaymentAmount: amount,
		PaymentDate:   a.clock.Now().UTC().Format(time.RFC3339),
	}, nil
}

// TransactionID 生成 TXN 开头的演示用交易号，不保证全局唯一
func (a *Assembler) TransactionID() string {
	var b strings.Builder
	b.Grow(len(TransactionPrefix) + transactionDigits)
	b.WriteString(TransactionPrefix)
	for i := 0; i < transactionDigits; i++ {
		b.WriteByte(byte('0' + a.digit()))
	}
	return b.String()
}

// SplitName 第一个词为名，其余词以单个空格连接为姓
func SplitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func orNone(v string) string {
	if v == "" {
		return noneValue
	}
	return v
}

func parseInt(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidNumber, field, v)
	}
	return n, nil
}
