package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentRepository handles document comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByDocument(ctx context.Context, documentID string) ([]models.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByDocument(ctx context.Context, documentID string) error
}
