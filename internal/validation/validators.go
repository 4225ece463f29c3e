// File: internal/validation/validators.go
package validation

import "regexp"

// Conservative local-part@domain.tld pattern. Rejects a missing "@", a missing
// domain separator, and embedded whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// ValidateEmail reports whether text looks like a plausible email address.
func ValidateEmail(text string) bool {
	return emailRegex.MatchString(text)
}

// PasswordResult is the outcome of a password strength check.
type PasswordResult struct {
	Valid bool
	Error string
}

// ValidatePassword checks password strength rules and returns the first failing
// reason only, in priority order: required, minimum length, uppercase,
// lowercase, digit.
func ValidatePassword(password string) PasswordResult {
	if password == "" {
		return PasswordResult{Valid: false, Error: "Password is required."}
	}
	if len(password) < 8 {
		return PasswordResult{Valid: false, Error: "Password must be at least 8 characters long."}
	}
	if !upperRegex.MatchString(password) {
		return PasswordResult{Valid: false, Error: "Password must contain at least one uppercase letter."}
	}
	if !lowerRegex.MatchString(password) {
		return PasswordResult{Valid: false, Error: "Password must contain at least one lowercase letter."}
	}
	if !digitRegex.MatchString(password) {
		return PasswordResult{Valid: false, Error: "Password must contain at least one digit."}
	}
	return PasswordResult{Valid: true}
}
