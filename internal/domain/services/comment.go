package services

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentService handles document comments
type CommentService interface {
	// AddComment adds a comment (comment permission). Markup is stripped
	// from the body before storage.
	AddComment(ctx context.Context, userID, documentID, content string) (*models.Comment, error)

	// ListComments lists a document's comments ascending by time (read permission)
	ListComments(ctx context.Context, userID, documentID string) ([]models.Comment, error)

	// DeleteComment removes a comment. Allowed for the comment author and
	// the document owner.
	DeleteComment(ctx context.Context, userID, commentID string) error
}
