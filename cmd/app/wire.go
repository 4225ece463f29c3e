// File: cmd/app/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"quran_app_backend/internal/app"
	"quran_app_backend/internal/config"
	"quran_app_backend/internal/firebase"
	"quran_app_backend/internal/forms"
	"quran_app_backend/internal/gateway"
	"quran_app_backend/internal/jobs"
	"quran_app_backend/internal/nav"
	"quran_app_backend/internal/notify"
	"quran_app_backend/internal/platform/logger"
	"quran_app_backend/internal/profile"

	"github.com/google/wire"
)

// initializeApp is the main Wire injector.
func initializeApp(cfg *config.Config) (*app.App, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,

		// Identity provider surfaces
		firebase.NewService,
		firebase.NewIdentityToolkitClient,
		wire.Bind(new(gateway.AdminService), new(*firebase.Service)),
		wire.Bind(new(gateway.CredentialService), new(*firebase.IdentityToolkitClient)),

		// Document store
		provideFirestoreClient,
		profile.NewFirestoreRepository,
		wire.Bind(new(profile.Repository), new(*profile.FirestoreRepository)),

		// Session state
		provideSessionStore,
		provideTokenStore,

		// Gateway and consumers
		gateway.New,
		wire.Bind(new(forms.AuthService), new(*gateway.Gateway)),
		wire.Bind(new(jobs.SessionRefresher), new(*gateway.Gateway)),
		nav.NewMachine,
		notify.NewZapNotifier,
		wire.Bind(new(notify.Notifier), new(*notify.ZapNotifier)),
		forms.NewLoginForm,
		forms.NewSignUpForm,
		forms.NewForgotPasswordForm,
		jobs.NewSessionRefreshJob,

		// Application Layer
		app.NewApp,
	)
	return nil, nil, nil
}
