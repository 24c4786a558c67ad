package utils

import (
	"strings"
	"testing"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("E001", "somsri", "Accounting")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.EmployeeID != "E001" {
		t.Errorf("employee_id = %q", claims.EmployeeID)
	}
	if claims.Username != "somsri" {
		t.Errorf("username = %q", claims.Username)
	}
	if claims.Role != "Accounting" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.Issuer != "easypalm-backend" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestRefreshTokenCarriesEmployeeOnly(t *testing.T) {
	token, err := GenerateRefreshToken("E002")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.EmployeeID != "E002" {
		t.Errorf("employee_id = %q", claims.EmployeeID)
	}
	if claims.Username != "" || claims.Role != "" {
		t.Errorf("refresh token should carry no username/role, got %q/%q", claims.Username, claims.Role)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateAccessToken("E001", "somsri", "Sales")
	if err != nil {
		t.Fatal(err)
	}
	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d segments", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := ValidateToken(tampered); err == nil {
		t.Error("tampered token should not validate")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateToken("not-a-token"); err == nil {
		t.Error("garbage should not validate")
	}
}
