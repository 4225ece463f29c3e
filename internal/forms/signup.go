// File: internal/forms/signup.go
package forms

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"quran_app_backend/internal/common"
	"quran_app_backend/internal/notify"
	"quran_app_backend/internal/validation"
)

// SignUpInput is the registration profile collected by the sign-up screen.
type SignUpInput struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
}

// SignUpForm drives the registration submission. It keeps per-field error
// messages from the last submit; a failed confirmation match flags only the
// ConfirmPassword field. Validation failures never reach the gateway.
type SignUpForm struct {
	mu          sync.Mutex
	inFlight    bool
	fieldErrors map[string]string

	auth     AuthService
	notifier notify.Notifier
	validate *validator.Validate
	logger   *zap.Logger
}

func NewSignUpForm(auth AuthService, notifier notify.Notifier, logger *zap.Logger) *SignUpForm {
	return &SignUpForm{
		fieldErrors: make(map[string]string),
		auth:        auth,
		notifier:    notifier,
		validate:    validator.New(),
		logger:      logger.Named("SignUpForm"),
	}
}

// InFlight reports whether a submission is currently outstanding.
func (f *SignUpForm) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// FieldErrors returns a copy of the per-field errors from the last submit.
func (f *SignUpForm) FieldErrors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Submit validates the registration profile and creates the account through
// the gateway. On success the user is told to verify their email; the new
// session is never signed in.
func (f *SignUpForm) Submit(ctx context.Context, input SignUpInput) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		f.logger.Debug("Ignoring submit while a registration is outstanding")
		return nil
	}
	f.inFlight = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Email = strings.TrimSpace(input.Email)

	fieldErrors := f.check(input)
	f.mu.Lock()
	f.fieldErrors = fieldErrors
	f.mu.Unlock()
	if len(fieldErrors) > 0 {
		err := common.NewValidationError("Sign Up Failed", "Please fix the highlighted fields.")
		f.notifier.Show(notify.SeverityError, err.Heading, err.Message)
		return err
	}

	if err := f.auth.SignUp(ctx, input.Email, input.Password, input.FirstName, input.LastName); err != nil {
		f.showFailure(err)
		return err
	}

	f.notifier.Show(notify.SeveritySuccess, "Account Created",
		"Please check your email to verify your account before logging in.")
	return nil
}

// check runs the required-field tags, then the format and strength rules, and
// last the confirmation match. Each field keeps its first failing reason.
func (f *SignUpForm) check(input SignUpInput) map[string]string {
	fieldErrors := make(map[string]string)

	if err := f.validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fieldErrors[fe.Field()] = requiredMessage(fe.Field())
			}
		}
	}

	if _, ok := fieldErrors["Email"]; !ok && !validation.ValidateEmail(input.Email) {
		fieldErrors["Email"] = "Please enter a valid email address."
	}
	if _, ok := fieldErrors["Password"]; !ok {
		if result := validation.ValidatePassword(input.Password); !result.Valid {
			fieldErrors["Password"] = result.Error
		}
	}
	// A mismatch flags only the confirmation field; the password field keeps
	// its own verdict.
	if _, ok := fieldErrors["ConfirmPassword"]; !ok && input.ConfirmPassword != input.Password {
		fieldErrors["ConfirmPassword"] = "Passwords do not match."
	}
	return fieldErrors
}

func requiredMessage(field string) string {
	switch field {
	case "FirstName":
		return "First name is required."
	case "LastName":
		return "Last name is required."
	case "Email":
		return "Email is required."
	case "Password":
		return "Password is required."
	case "ConfirmPassword":
		return "Please confirm your password."
	}
	return "This field is required."
}

func (f *SignUpForm) showFailure(err error) {
	if appErr, ok := common.IsAppError(err); ok {
		f.notifier.Show(notify.SeverityError, appErr.Heading, appErr.Message)
		return
	}
	f.logger.Error("Unclassified registration failure", zap.Error(err))
	f.notifier.Show(notify.SeverityError, common.ErrUnknown.Heading, common.ErrUnknown.Message)
}
