package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/session"
	usermodel "rcb-marathon/pkg/core/user/model"
	userservice "rcb-marathon/pkg/core/user/service"
	"rcb-marathon/pkg/web/middleware"
	"rcb-marathon/pkg/web/model"
)

type UserService interface {
	SignUp(ctx context.Context, in userservice.SignUpInput) (usermodel.User, error)
	Login(ctx context.Context, email, password string) (usermodel.User, error)
	Get(ctx context.Context, id int64) (usermodel.User, error)
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
}

type SessionIssuer interface {
	Issue(sub session.Subject) (session.Session, error)
	Revoke(id string, expiresAt time.Time)
}

type AuthHandler struct {
	users    UserService
	sessions SessionIssuer
}

func NewAuthHandler(users UserService, sessions SessionIssuer) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// SignUp 注册成功后直接登录
func (h *AuthHandler) SignUp(ctx context.Context, c *app.RequestContext) {
	var req model.SignUpReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.SignUp(ctx, userservice.SignUpInput{
		Email:           req.Email,
		FullName:        req.FullName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	h.respondSession(ctx, c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(ctx context.Context, c *app.RequestContext) {
	var req model.LoginReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := h.users.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	h.respondSession(ctx, c, http.StatusOK, user)
}

// Logout 注销当前会话，令牌在过期前不再可用
func (h *AuthHandler) Logout(ctx context.Context, c *app.RequestContext) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(ctx, c, apperrors.ErrSessionInvalid)
		return
	}
	h.sessions.Revoke(id.SessionID, id.ExpiresAt)
	c.JSON(http.StatusOK, utils.H{"success": true})
}

func (h *AuthHandler) Me(ctx context.Context, c *app.RequestContext) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(ctx, c, apperrors.ErrSessionInvalid)
		return
	}
	user, err := h.users.Get(ctx, id.UserID)
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, utils.H{
		"success":   true,
		"user":      toUserRes(user),
		"expiresAt": id.ExpiresAt,
	})
}

func (h *AuthHandler) ChangePassword(ctx context.Context, c *app.RequestContext) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		respondError(ctx, c, apperrors.ErrSessionInvalid)
		return
	}
	var req model.ChangePwdReq
	if err := c.BindAndValidate(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := h.users.ChangePassword(ctx, id.UserID, req.OldPassword, req.NewPassword); err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(http.StatusOK, utils.H{"success": true})
}

func (h *AuthHandler) respondSession(ctx context.Context, c *app.RequestContext, status int, user usermodel.User) {
	sess, err := h.sessions.Issue(session.Subject{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		respondError(ctx, c, err)
		return
	}
	c.JSON(status, model.SessionRes{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      toUserRes(user),
	})
}

func toUserRes(u usermodel.User) model.UserRes {
	return model.UserRes{ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role}
}
