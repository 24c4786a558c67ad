package utils

import "testing"

func TestIsValidCitizenID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"1234567890123", true},
		{"123456789012", false},
		{"12345678901234", false},
		{"12345678901ab", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidCitizenID(tc.id); got != tc.want {
			t.Errorf("IsValidCitizenID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	cases := []struct {
		tel  string
		want bool
	}{
		{"0812345678", true},
		{"0212345678", true},
		{"812345678", false},
		{"08123456789", false},
		{"08-1234-567", false},
	}
	for _, tc := range cases {
		if got := IsValidPhoneNumber(tc.tel); got != tc.want {
			t.Errorf("IsValidPhoneNumber(%q) = %v, want %v", tc.tel, got, tc.want)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("somsri@easypalm.co.th") {
		t.Error("expected valid email")
	}
	if IsValidEmail("not-an-email") {
		t.Error("expected invalid email")
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("   ") {
		t.Error("whitespace should be empty")
	}
	if IsEmpty("x") {
		t.Error("non-blank should not be empty")
	}
}
