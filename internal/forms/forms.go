// File: internal/forms/forms.go
package forms

import "context"

// AuthService is the slice of the auth gateway the form controllers consume.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, firstName, lastName string) error
	RequestPasswordReset(ctx context.Context, email string) error
}
