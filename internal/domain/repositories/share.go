package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// ShareRepository handles document share grants
type ShareRepository interface {
	// Create persists a new share; duplicate (document, user) surfaces domain.ErrConflict
	Create(ctx context.Context, share *models.DocumentShare) error

	// Update changes the permission of an existing share
	Update(ctx context.Context, share *models.DocumentShare) error

	// Get retrieves the share for a (document, user) pair, ErrNotFound if absent
	Get(ctx context.Context, documentID, userID string) (*models.DocumentShare, error)

	// Delete revokes a share
	Delete(ctx context.Context, documentID, userID string) error

	// ListByDocument lists all grants on one document
	ListByDocument(ctx context.Context, documentID string) ([]models.DocumentShare, error)

	// ListForUser lists every share granted to a user
	ListForUser(ctx context.Context, userID string) ([]models.DocumentShare, error)

	// DeleteByDocument revokes all grants on a document (hard-delete cascade)
	DeleteByDocument(ctx context.Context, documentID string) error
}
