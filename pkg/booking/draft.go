// Package booking drives the two-step runner registration wizard: it keeps
// the form draft, validates the details step, looks up race categories for
// the chosen event and assembles the registration request.
package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownField 表单中不存在的字段
var ErrUnknownField = errors.New("booking: unknown form field")

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

type Address struct {
	Division string `json:"division"`
	District string `json:"district"`
	Upazilla string `json:"upazilla"`
}

// Draft 报名表单的全部输入，值均按表单原样保存为字符串
type Draft struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	BirthDate    string `json:"birthDate"`
	Gender       string `json:"gender"`
	BloodGroup   string `json:"bloodGroup"`
	FitnessLevel string `json:"fitnessLevel"`

	Allergies             string `json:"allergies"`
	Medications           string `json:"medications"`
	DietaryRestrictions   string `json:"dietaryRestrictions"`
	HasDisability         bool   `json:"hasDisability"`
	DisabilityDescription string `json:"disabilityDescription"`

	Emergency EmergencyContact `json:"emergency"`
	Address   Address          `json:"address"`

	EventID    string `json:"eventId"`
	CategoryID string `json:"categoryId"`

	PaymentMethod string `json:"paymentMethod"`
	TransactionID string `json:"transactionId"`
	PaymentAmount string `json:"paymentAmount"`

	TShirtSize string `json:"tshirtSize"`
	Notes      string `json:"notes"`
}

var draftFields = map[string]func(d *Draft) *string{
	"fullName":               func(d *Draft) *string { return &d.FullName },
	"email":                  func(d *Draft) *string { return &d.Email },
	"phone":                  func(d *Draft) *string { return &d.Phone },
	"birthDate":              func(d *Draft) *string { return &d.BirthDate },
	"gender":                 func(d *Draft) *string { return &d.Gender },
	"bloodGroup":             func(d *Draft) *string { return &d.BloodGroup },
	"fitnessLevel":           func(d *Draft) *string { return &d.FitnessLevel },
	"allergies":              func(d *Draft) *string { return &d.Allergies },
	"medications":            func(d *Draft) *string { return &d.Medications },
	"dietaryRestrictions":    func(d *Draft) *string { return &d.DietaryRestrictions },
	"disabilityDescription":  func(d *Draft) *string { return &d.DisabilityDescription },
	"emergency.name":         func(d *Draft) *string { return &d.Emergency.Name },
	"emergency.relationship": func(d *Draft) *string { return &d.Emergency.Relationship },
	"emergency.phone":        func(d *Draft) *string { return &d.Emergency.Phone },
	"emergency.email":        func(d *Draft) *string { return &d.Emergency.Email },
	"address.division":       func(d *Draft) *string { return &d.Address.Division },
	"address.district":       func(d *Draft) *string { return &d.Address.District },
	"address.upazilla":       func(d *Draft) *string { return &d.Address.Upazilla },
	"categoryId":             func(d *Draft) *string { return &d.CategoryID },
	"paymentMethod":          func(d *Draft) *string { return &d.PaymentMethod },
	"transactionId":          func(d *Draft) *string { return &d.TransactionID },
	"paymentAmount":          func(d *Draft) *string { return &d.PaymentAmount },
	"tshirtSize":             func(d *Draft) *string { return &d.TShirtSize },
	"notes":                  func(d *Draft) *string { return &d.Notes },
}

// Set 按表单字段名写入值，嵌套字段使用点号（address.district）
//
// 切换赛事会清空已选组别，组别必须属于当前赛事。
func (d *Draft) Set(field, value string) error {
	switch field {
	case "eventId":
		d.SetEvent(value)
		return nil
	case "hasDisability":
		v, err := parseCheckbox(value)
		if err != nil {
			return fmt.Errorf("hasDisability: %w", err)
		}
		d.HasDisability = v
		return nil
	}

	ptr, ok := draftFields[field]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	*ptr(d) = value
	return nil
}

// SetEvent 切换赛事，赛事变化时清空组别
func (d *Draft) SetEvent(eventID string) {
	if strings.TrimSpace(eventID) != strings.TrimSpace(d.EventID) {
		d.CategoryID = ""
	}
	d.EventID = eventID
}

func parseCheckbox(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "yes":
		return true, nil
	case "", "off", "no":
		return false, nil
	}
	return strconv.ParseBool(value)
}
