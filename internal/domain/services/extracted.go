package services

import (
	"context"

	"docvault/internal/domain/models"
)

// ExtractionService stores and serves structured facts pulled from documents
// by the external extraction step.
type ExtractionService interface {
	// RecordDatum stores one extracted fact (write permission)
	RecordDatum(ctx context.Context, userID string, req *RecordDatumRequest) (*models.ExtractedDatum, error)

	// ListData lists a document's extracted facts (read permission)
	ListData(ctx context.Context, userID, documentID string) ([]models.ExtractedDatum, error)
}

// RecordDatumRequest represents one extracted fact
type RecordDatumRequest struct {
	DocumentID string                 `json:"-"`
	Type       string                 `json:"type"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
