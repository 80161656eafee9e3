package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// FolderRepository handles folder persistence
type FolderRepository interface {
	// Create persists a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder scoped to its owner
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// Update persists folder field changes (rename or move)
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes a single folder row
	Delete(ctx context.Context, id, ownerID string) error

	// ListChildren lists immediate child folders (nil parent = root level)
	ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error)

	// ListByOwner retrieves all folders of an owner (flat list)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error)

	// GetPath computes the display path for a folder
	GetPath(ctx context.Context, folderID *string, ownerID string) (string, error)
}
