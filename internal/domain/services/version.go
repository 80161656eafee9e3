package services

import (
	"context"

	"docvault/internal/domain/models"
)

// VersionService is the append-only document version ledger
type VersionService interface {
	// CommitSnapshot appends the given snapshot as the next version
	// (previous max + 1). Concurrent commits race on the number; the
	// ledger retries a bounded number of times before surfacing the
	// conflict.
	CommitSnapshot(ctx context.Context, documentID, editorID string, snapshot Snapshot) (*models.DocumentVersion, error)

	// CommitCurrent snapshots the document's live state (write permission)
	CommitCurrent(ctx context.Context, userID, documentID string) (*models.DocumentVersion, error)

	// ListVersions returns versions ascending; from/to bound version
	// numbers inclusively, zero = unbounded (read permission)
	ListVersions(ctx context.Context, userID, documentID string, from, to int) ([]models.DocumentVersion, error)

	// RestoreVersion commits a new version whose snapshot equals the
	// historical one and makes it the live content. History is never
	// rewound (write permission).
	RestoreVersion(ctx context.Context, userID, documentID string, version int) (*models.DocumentVersion, error)
}

// Snapshot is the content/file state captured by a ledger entry
type Snapshot struct {
	Content string
	FileURL *string
}
