package services

import (
	"context"

	"docvault/internal/domain/models"
)

// FolderService handles folder tree business logic
type FolderService interface {
	// CreateFolder creates a new folder. A parent that does not exist or
	// belongs to another user is an invalid-parent validation error.
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// GetFolder retrieves a folder with its computed path
	GetFolder(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// RenameFolder changes a folder's name
	RenameFolder(ctx context.Context, id, ownerID, name string) (*models.Folder, error)

	// MoveFolder reparents a folder (nil = move to root). Fails with
	// ErrCycleDetected when the destination is the folder itself or one of
	// its descendants; the ancestor walk runs inside the move transaction.
	MoveFolder(ctx context.Context, id, ownerID string, newParentID *string) (*models.Folder, error)

	// DeleteFolder removes a folder using the given strategy: cascade
	// removes descendant folders and their documents; reparent detaches
	// children to the folder's own parent first.
	DeleteFolder(ctx context.Context, id, ownerID string, strategy models.DeleteStrategy) error

	// ListContents lists child folders and documents (nil = root level)
	ListContents(ctx context.Context, ownerID string, folderID *string) (*FolderContents, error)

	// Tree returns the owner's whole folder forest with documents attached
	Tree(ctx context.Context, ownerID string) ([]TreeNode, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// FolderContents represents a folder with its children
type FolderContents struct {
	Folder    *models.Folder    `json:"folder,omitempty"` // null for root
	Folders   []models.Folder   `json:"folders"`
	Documents []models.Document `json:"documents"`
}

// TreeNode is one folder in the nested tree response
type TreeNode struct {
	Folder    models.Folder     `json:"folder"`
	Children  []TreeNode        `json:"children"`
	Documents []models.Document `json:"documents"`
}
