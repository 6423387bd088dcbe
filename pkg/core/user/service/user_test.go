package service

import (
	"context"
	"errors"
	"testing"

	apperrors "rcb-marathon/pkg/common/errors"
	"rcb-marathon/pkg/core/user/model"
)

type fakeUserRepo struct {
	users  map[string]model.User
	nextID int64

	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]model.User)}
}

func (f *fakeUserRepo) QueryByID(ctx context.Context, id int64) (model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) QueryByEmail(ctx context.Context, email string) (model.User, error) {
	u, ok := f.users[email]
	if !ok {
		return model.User{}, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) IsEmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	user.ID = f.nextID
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, newPwdHash string) error {
	for email, u := range f.users {
		if u.ID == userID {
			u.PasswordHash = newPwdHash
			f.users[email] = u
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func TestUserService_SignUpAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, []string{"Admin@Example.com"})
	ctx := context.Background()

	runner, err := svc.SignUp(ctx, SignUpInput{Email: " Runner@Example.com ", Password: "run4fun!", ConfirmPassword: "run4fun!"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if runner.Email != "runner@example.com" || runner.Role != model.RoleRunner {
		t.Fatalf("unexpected user %+v", runner)
	}
	if runner.PasswordHash == "run4fun!" {
		t.Fatalf("expected hashed password")
	}

	admin, err := svc.SignUp(ctx, SignUpInput{Email: "admin@example.com", Password: "adm1n-pass"})
	if err != nil {
		t.Fatalf("sign up admin: %v", err)
	}
	if !admin.IsAdmin() {
		t.Fatalf("expected admin role")
	}

	got, err := svc.Login(ctx, "RUNNER@example.com", "run4fun!")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != runner.ID {
		t.Fatalf("expected user %d, got %d", runner.ID, got.ID)
	}
}

func TestUserService_SignUpValidation(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   SignUpInput
	}{
		{name: "missing email", in: SignUpInput{Password: "run4fun!"}},
		{name: "not an email", in: SignUpInput{Email: "runner", Password: "run4fun!"}},
		{name: "short password", in: SignUpInput{Email: "a@b.c", Password: "r4!"}},
		{name: "no special character", in: SignUpInput{Email: "a@b.c", Password: "run4funrun"}},
		{name: "confirmation mismatch", in: SignUpInput{Email: "a@b.c", Password: "run4fun!", ConfirmPassword: "run4fun?"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SignUp(ctx, tt.in)
			if !apperrors.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUserService_SignUpDuplicate(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.c", Password: "run4fun!"}); err != nil {
		t.Fatalf("first sign up: %v", err)
	}
	_, err := svc.SignUp(ctx, SignUpInput{Email: "A@B.C", Password: "run4fun!"})
	if !errors.Is(err, apperrors.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserService_LoginFailures(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.c", Password: "run4fun!"}); err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if _, err := svc.Login(ctx, "a@b.c", "wrong-pass1!"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@b.c", "run4fun!"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestUserService_ChangePassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), nil)
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.c", Password: "run4fun!"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "bad-old1!", "new-pass1!"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "run4fun!", "weak"); !apperrors.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := svc.ChangePassword(ctx, user.ID, "run4fun!", "new-pass1!"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := svc.Login(ctx, "a@b.c", "new-pass1!"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
