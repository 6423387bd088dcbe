package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/user/model"
	"rcb-marathon/pkg/core/user/repository/dao"
)

type UserService struct {
	repo        dao.UserRepository
	adminEmails map[string]struct{}
}

func NewUserService(repo dao.UserRepository, adminEmails []string) *UserService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &UserService{repo: repo, adminEmails: admins}
}

type SignUpInput struct {
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
}

// SignUp 创建跑者账号，密码使用 bcrypt 加密存储
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.User{}, apperrors.NewValidation("email", "a valid email is required")
	}
	if err := validatePasswordStrength(in.Password); err != nil {
		return model.User{}, apperrors.NewValidation("password", err.Error())
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return model.User{}, apperrors.NewValidation("confirmPassword", "passwords do not match")
	}

	exists, err := s.repo.IsEmailExists(ctx, email)
	if err != nil {
		return model.User{}, err
	}
	if exists {
		return model.User{}, apperrors.ErrEmailTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	role := model.RoleRunner
	if _, ok := s.adminEmails[email]; ok {
		role = model.RoleAdmin
	}

	user := model.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hashedPwd),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login 校验邮箱与密码；账号不存在与密码错误返回同一错误
func (s *UserService) Login(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.repo.QueryByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return model.User{}, apperrors.ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	return s.repo.QueryByID(ctx, id)
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.repo.QueryByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	if err := validatePasswordStrength(newPassword); err != nil {
		return apperrors.NewValidation("newPassword", err.Error())
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, userID, string(newHash))
}

// 密码规则：同时包含数字、字母和特殊字符，最少8位
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	hasNumber := false
	hasLetter := false
	hasSpecial := false

	for _, c := range password {
		switch {
		case unicode.IsNumber(c):
			hasNumber = true
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsSymbol(c) || unicode.IsPunct(c):
			hasSpecial = true
		}
	}

	if !(hasNumber && hasLetter && hasSpecial) {
		return errors.New("password must contain a number, a letter and a special character")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
