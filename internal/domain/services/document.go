package services

import (
	"context"

	"docvault/internal/domain/models"
)

// DocumentService handles document lifecycle business logic
type DocumentService interface {
	// CreateDocument creates a document and schedules its first indexing
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument retrieves a document the user may read
	GetDocument(ctx context.Context, userID, id string) (*models.Document, error)

	// UpdateContent replaces the document body. The prior state is committed
	// to the version ledger in the same transaction; reindexing runs
	// afterwards and never blocks the edit.
	UpdateContent(ctx context.Context, userID, id string, content string) (*models.Document, error)

	// RenameDocument changes the display name (write permission)
	RenameDocument(ctx context.Context, userID, id, name string) (*models.Document, error)

	// MoveDocument relocates the document to another folder of the same
	// owner (nil = root). Owner only.
	MoveDocument(ctx context.Context, userID, id string, folderID *string) (*models.Document, error)

	// DeleteDocument hard-deletes the document and all owned children
	// (versions, chunks, shares, comments, tag joins, extracted data) in
	// one transaction. Owner only.
	DeleteDocument(ctx context.Context, userID, id string) error

	// ImportHTML sanitizes an HTML payload, converts it to markdown and
	// creates a document from the result
	ImportHTML(ctx context.Context, req *ImportHTMLRequest) (*models.Document, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id,omitempty"`
	Content  string  `json:"content"`
	FileURL  *string `json:"file_url,omitempty"`
}

// ImportHTMLRequest represents an HTML import request
type ImportHTMLRequest struct {
	OwnerID  string  `json:"-"`
	Name     string  `json:"name"`
	FolderID *string `json:"folder_id,omitempty"`
	HTML     string  `json:"html"`
}
