package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// VersionRepository handles the append-only version ledger.
// Implementations must enforce uniqueness of (document_id, version) and
// surface a violation as domain.ErrConflict so the ledger can retry.
type VersionRepository interface {
	// Insert appends an immutable version row
	Insert(ctx context.Context, version *models.DocumentVersion) error

	// MaxVersion returns the highest committed version number for a document,
	// or 0 if no version exists yet
	MaxVersion(ctx context.Context, documentID string) (int, error)

	// GetByVersion retrieves one ledger entry
	GetByVersion(ctx context.Context, documentID string, version int) (*models.DocumentVersion, error)

	// ListByDocument returns versions ordered ascending. from/to bound the
	// version numbers inclusively; zero means unbounded on that side.
	ListByDocument(ctx context.Context, documentID string, from, to int) ([]models.DocumentVersion, error)

	// DeleteByDocument removes all ledger rows for a document. Only the
	// document hard-delete cascade may call this.
	DeleteByDocument(ctx context.Context, documentID string) error
}
