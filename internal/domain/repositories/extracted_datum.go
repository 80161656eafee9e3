package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// ExtractedDatumRepository handles structured facts extracted from documents
type ExtractedDatumRepository interface {
	Create(ctx context.Context, datum *models.ExtractedDatum) error
	ListByDocument(ctx context.Context, documentID string) ([]models.ExtractedDatum, error)
	DeleteByDocument(ctx context.Context, documentID string) error
}
