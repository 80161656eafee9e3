package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// ChunkRepository handles generation-tagged chunk storage.
// A reindex writes a fresh generation, flips the document's committed pointer
// and drops superseded rows - all inside one transaction, so readers never
// observe a partial chunk set.
type ChunkRepository interface {
	// InsertBatch persists a chunk set for one (document, generation)
	InsertBatch(ctx context.Context, chunks []models.DocumentChunk) error

	// ListCommitted returns the committed-generation chunks for a document,
	// ordered by chunk index ascending
	ListCommitted(ctx context.Context, documentID string) ([]models.DocumentChunk, error)

	// ListCommittedForDocuments returns committed chunks across many documents
	// (the retrieval candidate set)
	ListCommittedForDocuments(ctx context.Context, documentIDs []string) ([]models.DocumentChunk, error)

	// DeleteOtherGenerations drops every chunk of the document whose
	// generation differs from keep
	DeleteOtherGenerations(ctx context.Context, documentID string, keep int64) error

	// DeleteByDocument removes every chunk of a document (hard-delete cascade)
	DeleteByDocument(ctx context.Context, documentID string) error
}
