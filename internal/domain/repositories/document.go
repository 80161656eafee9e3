package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// DocumentRepository handles document persistence
type DocumentRepository interface {
	// Create persists a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID regardless of owner.
	// Authorization is the caller's job (access overlay).
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// Update persists document field changes
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes a document row (owned children cascade in the same tx)
	Delete(ctx context.Context, id string) error

	// ListByFolder lists an owner's documents in a folder (nil = root)
	ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error)

	// ListByOwner lists every document an owner has
	ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error)

	// SetChunkGeneration flips the committed chunk set pointer
	SetChunkGeneration(ctx context.Context, id string, generation int64) error
}
