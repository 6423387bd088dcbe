package dao

import (
	"context"

	"rcb-marathon/pkg/core/registration/model"
)

type RegistrationRepository interface {
	// Create 在同一事务内锁定组别、占用名额并写入报名与支付记录
	Create(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id int64) (model.Registration, error)
	IsTransactionUsed(ctx context.Context, transactionID string) (bool, error)
}
