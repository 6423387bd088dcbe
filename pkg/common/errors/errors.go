// Package errors 定义业务错误，统一包装为 Hertz 公共错误类型。
//
// 使用方式:
//
//	if errors.Is(err, apperrors.ErrEventNotFound) { ... }
//
//	var vErr *apperrors.ValidationError
//	if errors.As(err, &vErr) { ... }
package errors

import (
	"errors"
	"fmt"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// 定义原始错误
var (
	rawErrUserNotFound        = errors.New("user not found")
	rawErrDuplicateEntry      = errors.New("duplicate entry")
	rawErrEmailTaken          = errors.New("email already registered")
	rawErrInvalidCredentials  = errors.New("invalid email or password")
	rawErrSessionInvalid      = errors.New("session is invalid or expired")
	rawErrForbidden           = errors.New("forbidden")
	rawErrEventNotFound       = errors.New("event not found")
	rawErrEventClosed         = errors.New("event is not open for registration")
	rawErrCategoryNotFound    = errors.New("category not found")
	rawErrCategoryMismatch    = errors.New("category does not belong to event")
	rawErrCategoryFull        = errors.New("category is full")
	rawErrRegistrationMissing = errors.New("registration not found")
	rawErrDuplicateTxn        = errors.New("transaction id already used")
	rawErrDatabaseInternal    = errors.New("database internal error")
	rawErrRequestTimeout      = errors.New("service unavailable")
)

// 包装成 Hertz 错误类型
var (
	ErrUserNotFound         = hzte.New(rawErrUserNotFound, hzte.ErrorTypePublic, nil)
	ErrDuplicateEntry       = hzte.New(rawErrDuplicateEntry, hzte.ErrorTypePublic, nil)
	ErrEmailTaken           = hzte.New(rawErrEmailTaken, hzte.ErrorTypePublic, nil)
	ErrInvalidCredentials   = hzte.New(rawErrInvalidCredentials, hzte.ErrorTypePublic, nil)
	ErrSessionInvalid       = hzte.New(rawErrSessionInvalid, hzte.ErrorTypePublic, nil)
	ErrForbidden            = hzte.New(rawErrForbidden, hzte.ErrorTypePublic, nil)
	ErrEventNotFound        = hzte.New(rawErrEventNotFound, hzte.ErrorTypePublic, nil)
	ErrEventClosed          = hzte.New(rawErrEventClosed, hzte.ErrorTypePublic, nil)
	ErrCategoryNotFound     = hzte.New(rawErrCategoryNotFound, hzte.ErrorTypePublic, nil)
	ErrCategoryMismatch     = hzte.New(rawErrCategoryMismatch, hzte.ErrorTypePublic, nil)
	ErrCategoryFull         = hzte.New(rawErrCategoryFull, hzte.ErrorTypePublic, nil)
	ErrRegistrationNotFound = hzte.New(rawErrRegistrationMissing, hzte.ErrorTypePublic, nil)
	ErrDuplicateTransaction = hzte.New(rawErrDuplicateTxn, hzte.ErrorTypePublic, nil)
	ErrDatabaseInternal     = hzte.New(rawErrDatabaseInternal, hzte.ErrorTypePrivate, nil)
	ErrRequestTimeout       = hzte.New(rawErrRequestTimeout, hzte.ErrorTypePublic, nil)
)

// ValidationError 请求字段校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation 构造字段校验错误
func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation 判断是否为校验错误
func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}
