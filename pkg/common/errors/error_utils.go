package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// region 错误处理工具函数

// WrapGormError 将底层数据库错误转变为业务可识别错误
//
// notFound 指定记录不存在时返回的业务错误，为 nil 时返回 ErrDatabaseInternal。
func WrapGormError(rawErr error, notFound error) error {
	if rawErr == nil {
		return nil
	}

	switch {
	case errors.Is(rawErr, context.DeadlineExceeded):
		// 请求超时导致的查询中断
		return fmt.Errorf("%w: %w", ErrRequestTimeout, rawErr)
	case errors.Is(rawErr, gorm.ErrRecordNotFound):
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
	case errors.Is(rawErr, gorm.ErrDuplicatedKey):
		return ErrDuplicateEntry
	}

	// 处理MySQL驱动错误
	var mysqlErr *mysql.MySQLError
	if errors.As(rawErr, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062: // 唯一性约束冲突
			return ErrDuplicateEntry
		case 1452: // 外键约束失败
			if notFound != nil {
				return notFound
			}
		case 1045, 1049, 1146:
			return fmt.Errorf("%w: %s", ErrDatabaseInternal, mysqlErr.Message)
		}
	}

	if errors.Is(rawErr, gorm.ErrInvalidDB) ||
		errors.Is(rawErr, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
	}

	// 兜底处理：附加原始错误信息
	return fmt.Errorf("%w: %v", ErrDatabaseInternal, rawErr)
}

// IsDuplicateError 判断是否为重复记录错误
func IsDuplicateError(err error) bool {
	if errors.Is(err, ErrDuplicateEntry) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// StatusOf 返回错误对应的 HTTP 状态码与业务码
func StatusOf(err error) (int, int) {
	switch {
	case err == nil:
		return http.StatusOK, 0
	case errors.Is(err, ErrRequestTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, 503000
	case IsValidation(err):
		return http.StatusBadRequest, 400001
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, 401001
	case errors.Is(err, ErrSessionInvalid):
		return http.StatusUnauthorized, 401002
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, 403001
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, 404001
	case errors.Is(err, ErrEventNotFound):
		return http.StatusNotFound, 404002
	case errors.Is(err, ErrCategoryNotFound):
		return http.StatusNotFound, 404003
	case errors.Is(err, ErrRegistrationNotFound):
		return http.StatusNotFound, 404004
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrDuplicateEntry):
		return http.StatusConflict, 409001
	case errors.Is(err, ErrDuplicateTransaction):
		return http.StatusConflict, 409002
	case errors.Is(err, ErrCategoryFull):
		return http.StatusConflict, 409003
	case errors.Is(err, ErrEventClosed):
		return http.StatusConflict, 409004
	case errors.Is(err, ErrCategoryMismatch):
		return http.StatusUnprocessableEntity, 422001
	default:
		return http.StatusInternalServerError, 500000
	}
}

// PublicMessage 返回可暴露给调用方的错误信息
func PublicMessage(err error) string {
	status, _ := StatusOf(err)
	switch status {
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return ErrRequestTimeout.Error()
	}
	return err.Error()
}
