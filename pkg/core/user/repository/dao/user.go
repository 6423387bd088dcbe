package dao

import (
	"context"

	"rcb-marathon/pkg/core/user/model"
)

type UserRepository interface {
	QueryByID(ctx context.Context, id int64) (model.User, error)
	QueryByEmail(ctx context.Context, email string) (model.User, error)
	IsEmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID int64, newPwdHash string) error
}
