// File: internal/app/app.go
package app

import (
	"context"

	"go.uber.org/zap"

	"quran_app_backend/internal/config"
	"quran_app_backend/internal/forms"
	"quran_app_backend/internal/gateway"
	"quran_app_backend/internal/jobs"
	"quran_app_backend/internal/nav"
	"quran_app_backend/internal/session"
)

// App composes the authentication core: the session store, the auth gateway,
// the navigation machine, the form controllers and the background refresh job.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *session.Store
	gateway *gateway.Gateway
	machine *nav.Machine

	LoginForm          *forms.LoginForm
	SignUpForm         *forms.SignUpForm
	ForgotPasswordForm *forms.ForgotPasswordForm

	sessionRefreshJob *jobs.SessionRefreshJob
	cancelResolve     context.CancelFunc
}

// NewApp creates a new instance of the application core.
func NewApp(
	cfg *config.Config,
	logger *zap.Logger,
	store *session.Store,
	gw *gateway.Gateway,
	machine *nav.Machine,
	loginForm *forms.LoginForm,
	signUpForm *forms.SignUpForm,
	forgotPasswordForm *forms.ForgotPasswordForm,
	sessionRefreshJob *jobs.SessionRefreshJob,
) (*App, error) {
	return &App{
		cfg:                cfg,
		logger:             logger.Named("App"),
		store:              store,
		gateway:            gw,
		machine:            machine,
		LoginForm:          loginForm,
		SignUpForm:         signUpForm,
		ForgotPasswordForm: forgotPasswordForm,
		sessionRefreshJob:  sessionRefreshJob,
	}, nil
}

// Store exposes the session store for read-only consumers.
func (a *App) Store() *session.Store {
	return a.store
}

// Machine exposes the navigation state machine.
func (a *App) Machine() *nav.Machine {
	return a.machine
}

// Gateway exposes the auth gateway for direct operations such as sign-out.
func (a *App) Gateway() *gateway.Gateway {
	return a.gateway
}

// Start launches the splash sequence, the startup session resolution and the
// session refresh job. The navigation machine sits on Splash until resolution
// completes.
func (a *App) Start() error {
	a.machine.Start()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelResolve = cancel
	go a.gateway.Resolve(ctx)

	if a.sessionRefreshJob != nil {
		if err := a.sessionRefreshJob.SetupAndStart(); err != nil {
			a.logger.Error("Failed to setup and start session refresh job", zap.Error(err))
		}
	} else {
		a.logger.Info("Session refresh job is not configured, skipping start.")
	}

	a.logger.Info("Application core started", zap.String("env", a.cfg.AppEnv))
	return nil
}

// Shutdown stops the refresh job and the navigation machine and abandons any
// in-flight startup resolution.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Attempting graceful shutdown...")
	if a.sessionRefreshJob != nil {
		a.sessionRefreshJob.Stop()
	}
	a.machine.Stop()
	if a.cancelResolve != nil {
		a.cancelResolve()
	}
	a.logger.Info("Application core stopped")
	return nil
}
