package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid simple", "a@b.com", true},
		{"valid with subdomain", "user@mail.example.org", true},
		{"valid with plus", "user+tag@example.com", true},
		{"missing at", "userexample.com", false},
		{"missing dot after at", "user@examplecom", false},
		{"dot before at only", "user.name@examplecom", false},
		{"embedded whitespace local part", "us er@example.com", false},
		{"embedded whitespace domain", "user@exa mple.com", false},
		{"empty string", "", false},
		{"only at", "@", false},
		{"trailing at", "user@", false},
		{"leading at", "@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name      string
		password  string
		wantValid bool
		wantError string
	}{
		{"empty yields required error", "", false, "Password is required."},
		{"short yields length error", "Ab1", false, "Password must be at least 8 characters long."},
		{"no uppercase", "abcdefg1", false, "Password must contain at least one uppercase letter."},
		{"no lowercase", "ABCDEFG1", false, "Password must contain at least one lowercase letter."},
		{"no digit", "Abcdefgh", false, "Password must contain at least one digit."},
		{"valid password", "Abcdefg1", true, ""},
		{"valid long password", "SuperSecret99", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePassword(tt.password)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.wantError, got.Error)
		})
	}
}

// Length is checked before character classes, and required before length.
func TestValidatePasswordPriorityOrdering(t *testing.T) {
	got := ValidatePassword("abc")
	assert.False(t, got.Valid)
	assert.Equal(t, "Password must be at least 8 characters long.", got.Error)

	got = ValidatePassword("")
	assert.Equal(t, "Password is required.", got.Error)
}
