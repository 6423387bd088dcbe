package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/hertz-contrib/jwt"

	"rcb-marathon/pkg/common/config"
	"rcb-marathon/pkg/core/session"
	usermodel "rcb-marathon/pkg/core/user/model"
)

// IdentityKey 认证通过后身份信息在请求上下文中的键
const IdentityKey = "identity"

// Identity 从会话令牌中解析出的调用方
type Identity struct {
	UserID    int64
	Email     string
	Role      string
	SessionID string
	ExpiresAt time.Time
}

func (i *Identity) IsAdmin() bool {
	return i.Role == usermodel.RoleAdmin
}

// RevocationChecker 查询会话是否已注销
type RevocationChecker interface {
	IsRevoked(id string) bool
}

// SessionAuth 由会话令牌校验中间件组成
type SessionAuth struct {
	runner *jwt.HertzJWTMiddleware
	admin  *jwt.HertzJWTMiddleware
	revoke RevocationChecker
}

func NewSessionAuth(cfg *config.JWTAuthConfig, revoke RevocationChecker) (*SessionAuth, error) {
	runner, err := newJWTMiddleware(cfg, func(id *Identity) bool { return true })
	if err != nil {
		return nil, err
	}
	admin, err := newJWTMiddleware(cfg, (*Identity).IsAdmin)
	if err != nil {
		return nil, err
	}
	return &SessionAuth{runner: runner, admin: admin, revoke: revoke}, nil
}

// RequireSession 要求有效且未注销的会话
func (a *SessionAuth) RequireSession() []app.HandlerFunc {
	return []app.HandlerFunc{a.runner.MiddlewareFunc(), a.checkRevoked()}
}

// RequireAdmin 要求管理员会话
func (a *SessionAuth) RequireAdmin() []app.HandlerFunc {
	return []app.HandlerFunc{a.admin.MiddlewareFunc(), a.checkRevoked()}
}

func (a *SessionAuth) checkRevoked() app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		id, ok := CurrentIdentity(ctx)
		if !ok || a.revoke.IsRevoked(id.SessionID) {
			handleJWTError(c, ctx, http.StatusUnauthorized, "session is invalid or expired")
			ctx.Abort()
			return
		}
		ctx.Next(c)
	}
}

// CurrentIdentity 返回已认证的调用方
func CurrentIdentity(ctx *app.RequestContext) (*Identity, bool) {
	v, ok := ctx.Get(IdentityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok && id != nil
}

func newJWTMiddleware(cfg *config.JWTAuthConfig, allow func(*Identity) bool) (*jwt.HertzJWTMiddleware, error) {
	return jwt.New(&jwt.HertzJWTMiddleware{
		Realm:            cfg.Realm,
		SigningAlgorithm: cfg.SigningMethod,
		Key:              []byte(cfg.Secret),
		Timeout:          cfg.ExpireDuration,
		TimeFunc:         time.Now,
		TokenLookup:      "header: Authorization",
		TokenHeadName:    "Bearer",
		IdentityKey:      IdentityKey,
		IdentityHandler:  identityFromClaims,
		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			id, ok := data.(*Identity)
			if !ok || id == nil || id.UserID <= 0 {
				return false
			}
			return allow(id)
		},
		Unauthorized: handleJWTError,
	})
}

func identityFromClaims(ctx context.Context, c *app.RequestContext) interface{} {
	claims := jwt.ExtractClaims(ctx, c)

	userID, _ := claims[session.ClaimUserID].(float64)
	email, _ := claims[session.ClaimEmail].(string)
	role, _ := claims[session.ClaimRole].(string)
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)

	return &Identity{
		UserID:    int64(userID),
		Email:     email,
		Role:      role,
		SessionID: jti,
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
	}
}

func handleJWTError(ctx context.Context, c *app.RequestContext, code int, message string) {
	hlog.CtxWarnf(ctx, "JWT Error (code=%d) path=%s: %s", code, c.Path(), message)
	bizCode := 401002
	if code == http.StatusForbidden {
		bizCode = 403001
	}
	c.JSON(code, utils.H{
		"success": false,
		"code":    bizCode,
		"error":   message,
	})
}
