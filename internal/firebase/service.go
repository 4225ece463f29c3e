// File: internal/firebase/service.go
package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"quran_app_backend/internal/config"
)

// Account is the provider-side view of a user account. EmailVerified here is
// the authoritative value from the identity provider.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
	Disabled      bool
}

// Service wraps the Firebase Admin SDK: the server-side half of the identity
// provider (authoritative account lookups, profile updates, token revocation)
// and the Firestore document store handle.
type Service struct {
	app        *firebase.App
	authClient *auth.Client
	logger     *zap.Logger
}

// NewService initializes the Firebase Admin SDK from the configured service
// account credentials.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// If ProjectID is not specified in config, let SDK infer from credentials
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Service{
		app:        app,
		authClient: authClient,
		logger:     logger,
	}, nil
}

// Firestore returns a Firestore client for the configured project.
func (s *Service) Firestore(ctx context.Context) (*firestore.Client, error) {
	client, err := s.app.Firestore(ctx)
	if err != nil {
		s.logger.Error("Failed to get Firestore client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}
	return client, nil
}

// GetUser fetches the authoritative account record for a uid.
func (s *Service) GetUser(ctx context.Context, uid string) (*Account, error) {
	record, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		s.logger.Warn("Failed to fetch user record", zap.Error(err), zap.String("uid", uid))
		return nil, fmt.Errorf("failed to fetch user record: %w", err)
	}
	return &Account{
		UID:           record.UID,
		Email:         record.Email,
		DisplayName:   record.DisplayName,
		EmailVerified: record.EmailVerified,
		Disabled:      record.Disabled,
	}, nil
}

// UpdateDisplayName sets the account's display name.
func (s *Service) UpdateDisplayName(ctx context.Context, uid, displayName string) error {
	update := (&auth.UserToUpdate{}).DisplayName(displayName)
	if _, err := s.authClient.UpdateUser(ctx, uid, update); err != nil {
		s.logger.Error("Failed to update display name", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to update display name: %w", err)
	}
	return nil
}

// RevokeRefreshTokens revokes all refresh tokens for a given user.
func (s *Service) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("Successfully revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}
