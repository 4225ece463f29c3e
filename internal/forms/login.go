// File: internal/forms/login.go
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

// LoginForm drives the sign-in submission. Validation runs locally before the
// gateway is ever called; a submit while another is outstanding is a no-op.
type LoginForm struct {
	mu       sync.Mutex
	inFlight bool

	auth     AuthService
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewLoginForm(auth AuthService, notifier notify.Notifier, logger *zap.Logger) *LoginForm {
	return &LoginForm{
		auth:     auth,
		notifier: notifier,
		logger:   logger.Named("LoginForm"),
	}
}

// InFlight reports whether a submission is currently outstanding.
func (f *LoginForm) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit validates the credentials and signs in through the gateway. The
// outcome is surfaced as a toast; the returned error carries the classified
// kind for callers that need it.
func (f *LoginForm) Submit(ctx context.Context, email, password string) error {
	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		f.logger.Debug("Ignoring submit while a sign-in is outstanding")
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
	if email == "" || password == "" {
		err := common.NewValidationError("Missing Fields", "Please enter both email and password.")
		f.notifier.Show(notify.SeverityError, err.Heading, err.Message)
		return err
	}
	if !validation.ValidateEmail(email) {
		err := common.NewValidationError(common.ErrInvalidEmail.Heading, common.ErrInvalidEmail.Message)
		f.notifier.Show(notify.SeverityError, err.Heading, err.Message)
		return err
	}

	if err := f.auth.SignIn(ctx, email, password); err != nil {
		f.showFailure(err)
		return err
	}

	f.notifier.Show(notify.SeveritySuccess, "Success", "Logged in successfully.")
	return nil
}

func (f *LoginForm) showFailure(err error) {
	if appErr, ok := common.IsAppError(err); ok {
		f.notifier.Show(notify.SeverityError, appErr.Heading, appErr.Message)
		return
	}
	f.logger.Error("Unclassified sign-in failure", zap.Error(err))
	f.notifier.Show(notify.SeverityError, common.ErrUnknown.Heading, common.ErrUnknown.Message)
}
