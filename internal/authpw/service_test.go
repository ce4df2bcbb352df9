package authpw

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"casaplan/api/internal/store"
)

type fakeUserStore struct {
	users          map[string]store.User // by email
	byID           map[string]store.User
	resets         map[string]string // token -> userID
	verified       map[string]bool   // verification token -> consumed
	passwordByUser map[string]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:          map[string]store.User{},
		byID:           map[string]store.User{},
		resets:         map[string]string{},
		verified:       map[string]bool{},
		passwordByUser: map[string]string{},
	}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	user, ok := f.users[email]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user store.User) error {
	f.users[user.Email] = user
	f.byID[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateUserVerificationToken(_ context.Context, userID, token string, _ time.Time) error {
	f.verified[token] = false
	return nil
}

func (f *fakeUserStore) VerifyUserEmail(_ context.Context, token string) error {
	consumed, ok := f.verified[token]
	if !ok || consumed {
		return sql.ErrNoRows
	}
	f.verified[token] = true
	for email, user := range f.users {
		if user.VerificationToken == token {
			user.IsEmailVerified = true
			f.users[email] = user
			f.byID[user.ID] = user
		}
	}
	return nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	f.passwordByUser[userID] = passwordHash
	return nil
}

func (f *fakeUserStore) CreatePasswordReset(_ context.Context, userID, token string, _ time.Time) error {
	f.resets[token] = userID
	return nil
}

func (f *fakeUserStore) GetPasswordReset(_ context.Context, token string) (string, error) {
	userID, ok := f.resets[token]
	if !ok {
		return "", sql.ErrNoRows
	}
	return userID, nil
}

func (f *fakeUserStore) MarkPasswordResetUsed(_ context.Context, token string) error {
	delete(f.resets, token)
	return nil
}

func TestSignUpAndSignIn(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpRequest{
		Email:       "dana@example.com",
		Password:    "supersecret",
		DisplayName: "Dana",
		Role:        "professional",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if resp.Role != "professional" {
		t.Fatalf("expected professional role, got %q", resp.Role)
	}
	if !resp.RequiresEmailVerify || resp.VerificationToken == "" {
		t.Fatal("expected email verification to be required")
	}

	// Before verification, sign-in flags the account.
	signIn, err := svc.SignIn(ctx, SignInRequest{Email: "dana@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !signIn.RequiresVerify {
		t.Fatal("expected RequiresVerify before email verification")
	}

	if err := svc.VerifyEmail(ctx, resp.VerificationToken); err != nil {
		t.Fatalf("verify email: %v", err)
	}

	signIn, err = svc.SignIn(ctx, SignInRequest{Email: "dana@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("sign in after verify: %v", err)
	}
	if signIn.RequiresVerify {
		t.Fatal("did not expect RequiresVerify after verification")
	}
	if signIn.User.Role != "professional" {
		t.Fatalf("role lost in sign-in: %q", signIn.User.Role)
	}
}

func TestSignUpValidation(t *testing.T) {
	svc := NewService(newFakeUserStore())
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, SignUpRequest{Email: "a@b.c", Password: "short", DisplayName: "A"}); err == nil {
		t.Fatal("expected error for short password")
	}
	if _, err := svc.SignUp(ctx, SignUpRequest{Password: "longenough", DisplayName: "A"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestSignUpUnknownRoleFallsBackToClient(t *testing.T) {
	svc := NewService(newFakeUserStore())
	resp, err := svc.SignUp(context.Background(), SignUpRequest{
		Email:       "sam@example.com",
		Password:    "supersecret",
		DisplayName: "Sam",
		Role:        "administrator",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if resp.Role != "client" {
		t.Fatalf("expected fallback to client, got %q", resp.Role)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, SignUpRequest{Email: "x@y.z", Password: "supersecret", DisplayName: "X"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err := svc.VerifyEmail(ctx, resp.VerificationToken); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := svc.SignIn(ctx, SignInRequest{Email: "x@y.z", Password: "wrong-password"}); err == nil {
		t.Fatal("expected error for wrong password")
	}
}

func TestPasswordReset(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)
	ctx := context.Background()

	signUp, err := svc.SignUp(ctx, SignUpRequest{Email: "r@s.t", Password: "supersecret", DisplayName: "R"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	token, err := svc.RequestPasswordReset(ctx, "r@s.t")
	if err != nil || token == "" {
		t.Fatalf("request reset: token=%q err=%v", token, err)
	}

	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "anothersecret"}); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, ok := fs.passwordByUser[signUp.UserID]; !ok {
		t.Fatal("password hash was not updated")
	}

	// Token is single-use.
	if err := svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "thirdsecret"}); err == nil {
		t.Fatal("expected error reusing reset token")
	}

	// Unknown email does not reveal anything.
	token, err = svc.RequestPasswordReset(ctx, "nobody@example.com")
	if err != nil || token != "" {
		t.Fatalf("unknown email should return empty token without error, got %q %v", token, err)
	}
}
