package model

import "time"

// 请求/响应数据结构
type (
	SignUpReq struct {
		Email           string `json:"email"`
		FullName        string `json:"fullName"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	LoginReq struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	ChangePwdReq struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}

	UserRes struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		FullName string `json:"fullName,omitempty"`
		Role     string `json:"role"`
	}

	SessionRes struct {
		Success   bool      `json:"success"`
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
		User      UserRes   `json:"user"`
	}
)
