// File: internal/forms/forgot.go
package forms

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"quran_app_backend/internal/common"
	"quran_app_backend/internal/notify"
	"quran_app_backend/internal/validation"
)

// ForgotPasswordForm drives the password-reset request.
type ForgotPasswordForm struct {
	mu       sync.Mutex
	inFlight bool

	auth     AuthService
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewForgotPasswordForm(auth AuthService, notifier notify.Notifier, logger *zap.Logger) *ForgotPasswordForm {
	return &ForgotPasswordForm{
		auth:     auth,
		notifier: notifier,
		logger:   logger.Named("ForgotPasswordForm"),
	}
}

// InFlight reports whether a submission is currently outstanding.
func (f *ForgotPasswordForm) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit validates the email locally, then asks the gateway to send the reset
// email.
func (f *ForgotPasswordForm) Submit(ctx context.Context, email string) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		f.logger.Debug("Ignoring submit while a reset request is outstanding")
		return nil
	}
	f.inFlight = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.mu.Unlock()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		err := common.NewValidationError("Missing Email", "Please enter your email address.")
		f.notifier.Show(notify.SeverityError, err.Heading, err.Message)
		return err
	}
	if !validation.ValidateEmail(email) {
		err := common.NewValidationError(common.ErrInvalidEmail.Heading, common.ErrInvalidEmail.Message)
		f.notifier.Show(notify.SeverityError, err.Heading, err.Message)
		return err
	}

	if err := f.auth.RequestPasswordReset(ctx, email); err != nil {
		if appErr, ok := common.IsAppError(err); ok {
			f.notifier.Show(notify.SeverityError, appErr.Heading, appErr.Message)
		} else {
			f.logger.Error("Unclassified reset failure", zap.Error(err))
			f.notifier.Show(notify.SeverityError, common.ErrUnknown.Heading, common.ErrUnknown.Message)
		}
		return err
	}

	f.notifier.Show(notify.SeveritySuccess, "Email Sent",
		"Password reset instructions have been sent to your email.")
	return nil
}
