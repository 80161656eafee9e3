package services

import (
	"context"

	"docvault/internal/domain/models"
)

// TagService handles the per-user tag catalog
type TagService interface {
	// CreateTag creates a tag; duplicate (name, owner) is a conflict
	CreateTag(ctx context.Context, req *CreateTagRequest) (*models.Tag, error)

	// ListTags lists the owner's tags
	ListTags(ctx context.Context, ownerID string) ([]models.Tag, error)

	// DeleteTag removes a tag and detaches it everywhere
	DeleteTag(ctx context.Context, ownerID, tagID string) error

	// AttachTag labels a document. The tag and document must share the same
	// owner; a duplicate pair is a conflict.
	AttachTag(ctx context.Context, userID, documentID, tagID string) error

	// DetachTag removes a label from a document
	DetachTag(ctx context.Context, userID, documentID, tagID string) error

	// ListDocumentTags lists the tags on a document (read permission)
	ListDocumentTags(ctx context.Context, userID, documentID string) ([]models.Tag, error)
}

// CreateTagRequest represents a tag creation request
type CreateTagRequest struct {
	OwnerID string `json:"-"`
	Name    string `json:"name"`
	Color   string `json:"color"`
}
