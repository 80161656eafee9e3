package services

import (
	"context"

	"docvault/internal/domain/models"
)

// ShareService handles share grants. Only the document owner may grant,
// change or revoke access.
type ShareService interface {
	// GrantShare creates a grant; a duplicate (document, user) is a conflict
	GrantShare(ctx context.Context, req *GrantShareRequest) (*models.DocumentShare, error)

	// UpdateShare changes the permission of an existing grant
	UpdateShare(ctx context.Context, ownerID, documentID, userID string, permission models.Permission) (*models.DocumentShare, error)

	// RevokeShare removes a grant
	RevokeShare(ctx context.Context, ownerID, documentID, userID string) error

	// ListShares lists the grants on a document
	ListShares(ctx context.Context, ownerID, documentID string) ([]models.DocumentShare, error)
}

// GrantShareRequest represents a share grant request
type GrantShareRequest struct {
	OwnerID    string            `json:"-"`
	DocumentID string            `json:"-"`
	UserID     string            `json:"user_id"`
	Permission models.Permission `json:"permission"`
}
