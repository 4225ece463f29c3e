// File: internal/profile/repository.go
package profile

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"

	"quran_app_backend/internal/config"
)

// Repository persists profile documents keyed by account id.
type Repository interface {
	Save(ctx context.Context, uid string, p Profile) error
}

// FirestoreRepository writes profile documents to the users collection.
type FirestoreRepository struct {
	client     *firestore.Client
	collection string
	logger     *zap.Logger
}

func NewFirestoreRepository(client *firestore.Client, cfg *config.Config, logger *zap.Logger) *FirestoreRepository {
	return &FirestoreRepository{
		client:     client,
		collection: cfg.UsersCollection,
		logger:     logger.Named("ProfileRepository"),
	}
}

var _ Repository = (*FirestoreRepository)(nil)

// Save writes the profile document at <collection>/<uid>, overwriting any
// previous document for the same account.
func (r *FirestoreRepository) Save(ctx context.Context, uid string, p Profile) error {
	if _, err := r.client.Collection(r.collection).Doc(uid).Set(ctx, p); err != nil {
		r.logger.Error("Failed to write profile document", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to write profile document: %w", err)
	}
	r.logger.Info("Profile document written", zap.String("uid", uid))
	return nil
}
