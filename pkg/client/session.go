package client

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"

	"rcb-marathon/pkg/web/model"
)

// Session 客户端持有的登录态，过期时间从令牌中解出
type Session struct {
	Token     string
	Email     string
	Role      string
	ExpiresAt time.Time
}

// NewSession 解析令牌中的 exp/email/role，不校验签名（签名由服务端校验）
func NewSession(token string) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("session token has no expiry")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &Session{Token: token, Email: email, Role: role, ExpiresAt: exp.Time.UTC()}, nil
}

// Valid 会话存在且未过期
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.Token != "" && now.Before(s.ExpiresAt)
}

func (c *Client) SignUp(ctx context.Context, req model.SignUpReq) (*Session, error) {
	body, err := c.do(ctx, methodPost, "/api/auth/signup", req)
	if err != nil {
		return nil, err
	}
	return c.adoptSession(body)
}

// Login 登录成功后客户端后续请求自动携带会话
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body, err := c.do(ctx, methodPost, "/api/auth/login", model.LoginReq{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return c.adoptSession(body)
}

// Logout 注销服务端会话并清除本地会话
func (c *Client) Logout(ctx context.Context) error {
	if c.Session() == nil {
		return nil
	}
	_, err := c.do(ctx, methodPost, "/api/auth/logout", nil)
	c.SetSession(nil)
	return err
}

func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	_, err := c.do(ctx, methodPut, "/api/auth/password", model.ChangePwdReq{OldPassword: oldPassword, NewPassword: newPassword})
	return err
}

func (c *Client) adoptSession(body []byte) (*Session, error) {
	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return nil, &APIError{Message: "login response carried no token"}
	}
	s, err := NewSession(token)
	if err != nil {
		return nil, err
	}
	c.SetSession(s)
	return s, nil
}
