package services

import (
	"errors"
	"testing"

	"easypalm_backend/internal/models"
	"easypalm_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

func seedAccount(t *testing.T, repo *fakeEmployeeRepo, active bool) *models.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	employee := &models.Employee{
		ID:           "E001",
		Name:         "Somsri Jaidee",
		CitizenID:    "1234567890123",
		Position:     "Accountant",
		Role:         "Accounting",
		Username:     "somsri",
		PasswordHash: string(hash),
		IsActive:     active,
	}
	repo.employees[employee.ID] = employee
	return employee
}

func TestLogin(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedAccount(t, repo, true)
	service := NewAuthService(repo)

	resp, err := service.Login(LoginRequest{Username: "somsri", Password: "s3cretpass"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Employee == nil || resp.Employee.ID != "E001" {
		t.Fatalf("employee = %+v", resp.Employee)
	}

	claims, err := utils.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.EmployeeID != "E001" || claims.Role != "Accounting" {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := utils.ValidateToken(resp.RefreshToken); err != nil {
		t.Errorf("refresh token invalid: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedAccount(t, repo, true)
	service := NewAuthService(repo)

	if _, err := service.Login(LoginRequest{Username: "somsri", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	// Unknown usernames get the same error so the endpoint does not leak
	// which accounts exist.
	if _, err := service.Login(LoginRequest{Username: "nobody", Password: "s3cretpass"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: got %v", err)
	}
}

func TestLoginRejectsSuspendedAccount(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedAccount(t, repo, false)
	service := NewAuthService(repo)

	if _, err := service.Login(LoginRequest{Username: "somsri", Password: "s3cretpass"}); !errors.Is(err, ErrAccountSuspended) {
		t.Errorf("suspended login: got %v, want ErrAccountSuspended", err)
	}
}

func TestRefreshToken(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedAccount(t, repo, true)
	service := NewAuthService(repo)

	login, err := service.Login(LoginRequest{Username: "somsri", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}

	refreshed, err := service.RefreshToken(RefreshTokenRequest{RefreshToken: login.RefreshToken})
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	claims, err := utils.ValidateToken(refreshed.AccessToken)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if claims.EmployeeID != "E001" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := service.RefreshToken(RefreshTokenRequest{RefreshToken: "garbage"}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage refresh: got %v", err)
	}
}

func TestRefreshTokenSuspendedAccount(t *testing.T) {
	repo := newFakeEmployeeRepo()
	employee := seedAccount(t, repo, true)
	service := NewAuthService(repo)

	login, err := service.Login(LoginRequest{Username: "somsri", Password: "s3cretpass"})
	if err != nil {
		t.Fatal(err)
	}

	// Suspension takes effect on the next refresh even with a valid token.
	repo.employees[employee.ID].IsActive = false
	if _, err := service.RefreshToken(RefreshTokenRequest{RefreshToken: login.RefreshToken}); !errors.Is(err, ErrAccountSuspended) {
		t.Errorf("suspended refresh: got %v, want ErrAccountSuspended", err)
	}
}

func TestGetProfile(t *testing.T) {
	repo := newFakeEmployeeRepo()
	seedAccount(t, repo, true)
	service := NewAuthService(repo)

	profile, err := service.GetProfile("E001")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Username != "somsri" {
		t.Errorf("profile = %+v", profile)
	}

	if _, err := service.GetProfile("E999"); !errors.Is(err, ErrEmployeeNotFound) {
		t.Errorf("unknown profile: got %v", err)
	}
}
