package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// TagRepository handles tags and document-tag joins
type TagRepository interface {
	// Create persists a tag; duplicate (name, owner) surfaces domain.ErrConflict
	Create(ctx context.Context, tag *models.Tag) error

	// GetByID retrieves a tag scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Tag, error)

	// ListByOwner lists all tags of an owner ordered by name
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error)

	// Delete removes a tag and its join rows
	Delete(ctx context.Context, id, ownerID string) error

	// Attach creates a (document, tag) join row; duplicates surface domain.ErrConflict
	Attach(ctx context.Context, documentID, tagID string) error

	// Detach removes a (document, tag) join row
	Detach(ctx context.Context, documentID, tagID string) error

	// ListByDocument lists the tags attached to a document
	ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error)

	// DetachAllFromDocument drops every join row of a document (hard-delete cascade)
	DetachAllFromDocument(ctx context.Context, documentID string) error
}
