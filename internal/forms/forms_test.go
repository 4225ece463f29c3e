package forms

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quran_app_backend/internal/common"
	"quran_app_backend/internal/notify"
)

const (
	testWait = time.Second
	testTick = time.Millisecond
)

// fakeAuth records gateway calls and returns configured results. An optional
// gate makes calls block, for exercising the in-flight latch.
type fakeAuth struct {
	mu          sync.Mutex
	signInCalls int
	signUpCalls int
	resetCalls  int

	signInErr error
	signUpErr error
	resetErr  error
	gate      chan struct{}
}

func (a *fakeAuth) SignIn(ctx context.Context, email, password string) error {
	a.mu.Lock()
	a.signInCalls++
	a.mu.Unlock()
	if a.gate != nil {
		<-a.gate
	}
	return a.signInErr
}

func (a *fakeAuth) SignUp(ctx context.Context, email, password, firstName, lastName string) error {
	a.mu.Lock()
	a.signUpCalls++
	a.mu.Unlock()
	return a.signUpErr
}

func (a *fakeAuth) RequestPasswordReset(ctx context.Context, email string) error {
	a.mu.Lock()
	a.resetCalls++
	a.mu.Unlock()
	return a.resetErr
}

func (a *fakeAuth) counts() (int, int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.signInCalls, a.signUpCalls, a.resetCalls
}

func validInput() SignUpInput {
	return SignUpInput{
		FirstName:       "Amina",
		LastName:        "Yusuf",
		Email:           "amina@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
	}
}

func TestLoginSubmitSuccess(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewLoginForm(auth, rec, zap.NewNop())

	require.NoError(t, form.Submit(context.Background(), "a@b.com", "Password1"))

	signIns, _, _ := auth.counts()
	assert.Equal(t, 1, signIns)
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeveritySuccess, toasts[0].Severity)
}

// A malformed email is rejected locally: no gateway call, one validation
// toast, and the error carries the validation kind.
func TestLoginSubmitRejectsMalformedEmailLocally(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewLoginForm(auth, rec, zap.NewNop())

	err := form.Submit(context.Background(), "bad@format", "x")

	require.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
	signIns, _, _ := auth.counts()
	assert.Zero(t, signIns)
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Invalid Email", toasts[0].Heading)
}

func TestLoginSubmitRejectsEmptyFields(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewLoginForm(auth, rec, zap.NewNop())

	err := form.Submit(context.Background(), "", "")

	assert.Equal(t, common.KindValidation, common.KindOf(err))
	signIns, _, _ := auth.counts()
	assert.Zero(t, signIns)
}

func TestLoginSubmitShowsClassifiedFailure(t *testing.T) {
	auth := &fakeAuth{signInErr: common.ErrWrongPassword}
	rec := notify.NewRecorder()
	form := NewLoginForm(auth, rec, zap.NewNop())

	err := form.Submit(context.Background(), "a@b.com", "wrongpass")

	assert.Equal(t, common.KindWrongPassword, common.KindOf(err))
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeverityError, toasts[0].Severity)
	assert.Equal(t, common.ErrWrongPassword.Heading, toasts[0].Heading)
	assert.Equal(t, common.ErrWrongPassword.Message, toasts[0].Message)
}

// A second submit while one is outstanding is a no-op, not a queue.
func TestLoginSubmitLatchMakesSecondSubmitNoop(t *testing.T) {
	auth := &fakeAuth{gate: make(chan struct{})}
	rec := notify.NewRecorder()
	form := NewLoginForm(auth, rec, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		done <- form.Submit(context.Background(), "a@b.com", "Password1")
	}()

	require.Eventually(t, form.InFlight, testWait, testTick)
	require.NoError(t, form.Submit(context.Background(), "a@b.com", "Password1"))

	close(auth.gate)
	require.NoError(t, <-done)
	signIns, _, _ := auth.counts()
	assert.Equal(t, 1, signIns)
}

func TestSignUpSubmitSuccess(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewSignUpForm(auth, rec, zap.NewNop())

	require.NoError(t, form.Submit(context.Background(), validInput()))

	_, signUps, _ := auth.counts()
	assert.Equal(t, 1, signUps)
	assert.Empty(t, form.FieldErrors())
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, notify.SeveritySuccess, toasts[0].Severity)
	assert.Equal(t, "Account Created", toasts[0].Heading)
}

// A confirmation mismatch flags only the ConfirmPassword field and makes zero
// gateway calls.
func TestSignUpSubmitMismatchFlagsConfirmPasswordOnly(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewSignUpForm(auth, rec, zap.NewNop())

	input := validInput()
	input.ConfirmPassword = "Password2"
	err := form.Submit(context.Background(), input)

	assert.Equal(t, common.KindValidation, common.KindOf(err))
	_, signUps, _ := auth.counts()
	assert.Zero(t, signUps)

	fieldErrors := form.FieldErrors()
	assert.Equal(t, map[string]string{"ConfirmPassword": "Passwords do not match."}, fieldErrors)
}

func TestSignUpSubmitCollectsFieldErrors(t *testing.T) {
	auth := &fakeAuth{}
	form := NewSignUpForm(auth, notify.NewRecorder(), zap.NewNop())

	err := form.Submit(context.Background(), SignUpInput{
		Email:           "not-an-email",
		Password:        "weak",
		ConfirmPassword: "weak",
	})

	require.Error(t, err)
	fieldErrors := form.FieldErrors()
	assert.Equal(t, "First name is required.", fieldErrors["FirstName"])
	assert.Equal(t, "Last name is required.", fieldErrors["LastName"])
	assert.Equal(t, "Please enter a valid email address.", fieldErrors["Email"])
	assert.Equal(t, "Password must be at least 8 characters long.", fieldErrors["Password"])
	assert.NotContains(t, fieldErrors, "ConfirmPassword")
	_, signUps, _ := auth.counts()
	assert.Zero(t, signUps)
}

func TestSignUpSubmitClearsStaleFieldErrors(t *testing.T) {
	auth := &fakeAuth{}
	form := NewSignUpForm(auth, notify.NewRecorder(), zap.NewNop())

	input := validInput()
	input.ConfirmPassword = "different"
	require.Error(t, form.Submit(context.Background(), input))
	require.NotEmpty(t, form.FieldErrors())

	require.NoError(t, form.Submit(context.Background(), validInput()))
	assert.Empty(t, form.FieldErrors())
}

func TestSignUpSubmitShowsEmailInUse(t *testing.T) {
	auth := &fakeAuth{signUpErr: common.ErrEmailInUse}
	rec := notify.NewRecorder()
	form := NewSignUpForm(auth, rec, zap.NewNop())

	err := form.Submit(context.Background(), validInput())

	assert.Equal(t, common.KindEmailInUse, common.KindOf(err))
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, common.ErrEmailInUse.Heading, toasts[0].Heading)
}

func TestForgotPasswordSubmit(t *testing.T) {
	auth := &fakeAuth{}
	rec := notify.NewRecorder()
	form := NewForgotPasswordForm(auth, rec, zap.NewNop())

	require.NoError(t, form.Submit(context.Background(), "a@b.com"))
	_, _, resets := auth.counts()
	assert.Equal(t, 1, resets)
	toasts := rec.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "Email Sent", toasts[0].Heading)
}

func TestForgotPasswordSubmitRejectsInvalidEmail(t *testing.T) {
	auth := &fakeAuth{}
	form := NewForgotPasswordForm(auth, notify.NewRecorder(), zap.NewNop())

	err := form.Submit(context.Background(), "nope")

	assert.Equal(t, common.KindValidation, common.KindOf(err))
	_, _, resets := auth.counts()
	assert.Zero(t, resets)
}
