// File: cmd/app/providers.go
package main

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"quran_app_backend/internal/config"
	"quran_app_backend/internal/firebase"
	"quran_app_backend/internal/session"
)

func provideSessionStore(logger *zap.Logger) *session.Store {
	return session.NewStore(logger)
}

func provideTokenStore(cfg *config.Config) (session.TokenStore, error) {
	return session.NewFileTokenStore(cfg.SessionFilePath)
}

// provideFirestoreClient opens the Firestore client and hands Wire its cleanup.
func provideFirestoreClient(svc *firebase.Service, logger *zap.Logger) (*firestore.Client, func(), error) {
	client, err := svc.Firestore(context.Background())
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		logger.Info("Closing Firestore client...")
		if err := client.Close(); err != nil {
			log.Printf("ERROR: Failed to close Firestore client: %v", err)
		}
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
	}
	return client, cleanup, nil
}
