package services_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okalmanwa/heart-monitor/internal/config"
	"github.com/okalmanwa/heart-monitor/internal/dto"
	"github.com/okalmanwa/heart-monitor/internal/models"
	"github.com/okalmanwa/heart-monitor/internal/services"
	"github.com/okalmanwa/heart-monitor/internal/testutil"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*services.AuthService, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 7 * 24 * time.Hour,
	}
	return services.NewAuthService(db, cfg), db
}

func register(t *testing.T, svc *services.AuthService, email string) *dto.AuthResponse {
	t.Helper()

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:           email,
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
		FirstName:       "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, db := newAuthService(t)

	resp := register(t, svc, "alice@example.com")
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("missing tokens in response")
	}
	if resp.User.Email != "alice@example.com" {
		t.Fatalf("user email = %q", resp.User.Email)
	}

	// Password hash never leaves the service.
	var user models.User
	if err := db.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.Password == "correct-horse" {
		t.Fatalf("password stored in plaintext")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	register(t, svc, "taken@example.com")

	tests := []struct {
		name    string
		req     dto.RegisterRequest
		wantErr error
	}{
		{"missing email", dto.RegisterRequest{Password: "correct-horse", PasswordConfirm: "correct-horse"}, services.ErrEmailRequired},
		{"short password", dto.RegisterRequest{Email: "x@example.com", Password: "short", PasswordConfirm: "short"}, services.ErrWeakPassword},
		{"confirm mismatch", dto.RegisterRequest{Email: "x@example.com", Password: "correct-horse", PasswordConfirm: "wrong-horse"}, services.ErrPasswordMismatch},
		{"duplicate email", dto.RegisterRequest{Email: "taken@example.com", Password: "correct-horse", PasswordConfirm: "correct-horse"}, services.ErrEmailTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(&tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	svc, db := newAuthService(t)
	register(t, svc, "alice@example.com")

	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"}); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("bad password err = %v, want %v", err, services.ErrInvalidCredentials)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "correct-horse"}); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v, want %v", err, services.ErrInvalidCredentials)
	}

	// Deactivated accounts cannot log in.
	if err := db.Model(&models.User{}).Where("email = ?", "alice@example.com").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "correct-horse"}); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("inactive login err = %v, want %v", err, services.ErrInvalidCredentials)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newAuthService(t)
	first := register(t, svc, "alice@example.com")

	second, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Fatalf("refresh token not rotated")
	}

	// The consumed token is dead; replaying it fails.
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: first.RefreshToken}); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("replay err = %v, want %v", err, services.ErrInvalidToken)
	}

	// The new token still works.
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: second.RefreshToken}); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthService(t)
	resp := register(t, svc, "alice@example.com")

	if err := svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken}); !errors.Is(err, services.ErrInvalidToken) {
		t.Fatalf("refresh after logout err = %v, want %v", err, services.ErrInvalidToken)
	}

	// Logging out an unknown token is not an error.
	if err := svc.Logout(&dto.LogoutRequest{RefreshToken: "garbage"}); err != nil {
		t.Fatalf("logout unknown token: %v", err)
	}
}

func TestDeleteAccountRequiresPassword(t *testing.T) {
	svc, db := newAuthService(t)
	resp := register(t, svc, "alice@example.com")

	if err := svc.DeleteAccount(resp.User.ID, "wrong"); !errors.Is(err, services.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v, want %v", err, services.ErrInvalidCredentials)
	}
	if err := svc.DeleteAccount(resp.User.ID, "correct-horse"); err != nil {
		t.Fatalf("delete account: %v", err)
	}

	var count int64
	if err := db.Model(&models.RefreshToken{}).Count(&count).Error; err != nil {
		t.Fatalf("count refresh tokens: %v", err)
	}
	if count != 0 {
		t.Fatalf("refresh tokens left after account deletion = %d", count)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	resp := register(t, svc, "alice@example.com")

	last := "Okafor"
	updated, err := svc.UpdateProfile(resp.User.ID, &dto.UpdateProfileRequest{LastName: &last})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FirstName != "Alice" || updated.LastName != "Okafor" {
		t.Fatalf("profile = %q %q, want Alice Okafor", updated.FirstName, updated.LastName)
	}
}
