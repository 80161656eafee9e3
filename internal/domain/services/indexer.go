package services

import (
	"context"
)

// IndexerService keeps each document's chunk set in sync with its content.
type IndexerService interface {
	// Reindex splits the document's current content, embeds every span and
	// atomically replaces the committed chunk set. Empty content commits an
	// empty set (the document drops out of retrieval). An unavailable
	// embedding service keeps the prior chunk set and returns
	// ErrUpstreamUnavailable.
	Reindex(ctx context.Context, documentID string) error

	// ScheduleReindex enqueues a reindex to run in the background with
	// retry on upstream failure. Never blocks the caller.
	ScheduleReindex(documentID string)

	// Start runs the background reindex worker until ctx is done
	Start(ctx context.Context)
}
