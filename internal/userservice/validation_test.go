package userservice

import (
	"strings"
	"testing"

	"github.com/inkwellapp/inkwell/internal/common"
)

func TestValidateUsername(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		valid    bool
	}{
		{"valid username", "testuser", true},
		{"valid with digits", "user123", true},
		{"empty username", "", false},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 26), false},
		{"contains symbol", "test_user", false},
		{"contains space", "test user", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateUsername(v, tc.username)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v for %q, got errors: %v", tc.valid, tc.username, v.Errors)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	testCases := []struct {
		name  string
		email string
		valid bool
	}{
		{"valid email", "test@example.com", true},
		{"valid with plus", "test+tag@example.com", true},
		{"empty email", "", false},
		{"missing domain", "test@", false},
		{"missing at sign", "testexample.com", false},
		{"missing tld", "test@example", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateEmail(v, tc.email)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v for %q, got errors: %v", tc.valid, tc.email, v.Errors)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"valid password", "TestPassword123!", true},
		{"empty password", "", false},
		{"too short", "Tp1!", false},
		{"too long", strings.Repeat("Aa1!", 19), false},
		{"no uppercase", "testpassword123!", false},
		{"no lowercase", "TESTPASSWORD123!", false},
		{"no number", "TestPassword!", false},
		{"no symbol", "TestPassword123", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validatePassword(v, tc.password)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v for %q, got errors: %v", tc.valid, tc.password, v.Errors)
			}
		})
	}
}

func TestValidateWebsite(t *testing.T) {
	testCases := []struct {
		name    string
		website string
		valid   bool
	}{
		{"empty website allowed", "", true},
		{"http url", "http://example.com", true},
		{"https url", "https://example.com/blog", true},
		{"missing scheme", "example.com", false},
		{"wrong scheme", "ftp://example.com", false},
		{"too long", "https://" + strings.Repeat("a", 200), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateWebsite(v, tc.website)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v for %q, got errors: %v", tc.valid, tc.website, v.Errors)
			}
		})
	}
}

func TestValidateBio(t *testing.T) {
	testCases := []struct {
		name  string
		bio   string
		valid bool
	}{
		{"empty bio allowed", "", true},
		{"short bio", "I write about Go.", true},
		{"at limit", strings.Repeat("a", 2000), true},
		{"over limit", strings.Repeat("a", 2001), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			validateBio(v, tc.bio)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v, got errors: %v", tc.valid, v.Errors)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	testCases := []struct {
		name  string
		token string
		valid bool
	}{
		{"valid token", strings.Repeat("A", 26), true},
		{"empty token", "", false},
		{"too short", strings.Repeat("A", 25), false},
		{"too long", strings.Repeat("A", 27), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := common.NewValidator()
			ValidateToken(v, tc.token)
			if v.Valid() != tc.valid {
				t.Errorf("expected valid=%v for %q, got errors: %v", tc.valid, tc.token, v.Errors)
			}
		})
	}
}
