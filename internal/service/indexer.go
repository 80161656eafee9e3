package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/embedding"
)

const (
	indexQueueSize        = 256
	maxReindexAttempts    = 3
	reindexRetryBaseDelay = 2 * time.Second
)

// indexerService keeps chunk sets in sync with document content.
// Each reindex writes a fresh generation and flips the document's committed
// pointer in one transaction, so retrieval always sees exactly one complete
// chunk set per document.
type indexerService struct {
	docRepo   repositories.DocumentRepository
	chunkRepo repositories.ChunkRepository
	txManager repositories.TransactionManager
	embedder  embedding.Client
	chunker   *Chunker
	queue     chan string
	logger    *slog.Logger
}

// NewIndexerService creates a new indexer service
func NewIndexerService(
	docRepo repositories.DocumentRepository,
	chunkRepo repositories.ChunkRepository,
	txManager repositories.TransactionManager,
	embedder embedding.Client,
	chunker *Chunker,
	logger *slog.Logger,
) services.IndexerService {
	return &indexerService{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		txManager: txManager,
		embedder:  embedder,
		chunker:   chunker,
		queue:     make(chan string, indexQueueSize),
		logger:    logger,
	}
}

// Reindex rebuilds the committed chunk set from the document's current
// content. Embedding runs before the transaction opens; an upstream failure
// therefore leaves the prior generation untouched.
func (s *indexerService) Reindex(ctx context.Context, documentID string) error {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	spans := s.chunker.Split(doc.Content)
	generation := time.Now().UnixNano()

	chunks := make([]models.DocumentChunk, 0, len(spans))
	for i, span := range spans {
		vector, err := s.embedder.Embed(ctx, span)
		if err != nil {
			return fmt.Errorf("embedding chunk %d of document %s: %w", i, documentID, err)
		}
		chunks = append(chunks, models.DocumentChunk{
			DocumentID: documentID,
			Generation: generation,
			ChunkIndex: i,
			Text:       span,
			Embedding:  embedding.Encode(vector),
			CreatedAt:  time.Now(),
		})
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if len(chunks) > 0 {
			if err := s.chunkRepo.InsertBatch(txCtx, chunks); err != nil {
				return fmt.Errorf("inserting chunks: %w", err)
			}
		}
		if err := s.docRepo.SetChunkGeneration(txCtx, documentID, generation); err != nil {
			return fmt.Errorf("flipping chunk generation: %w", err)
		}
		if err := s.chunkRepo.DeleteOtherGenerations(txCtx, documentID, generation); err != nil {
			return fmt.Errorf("dropping superseded chunks: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("document reindexed",
		"document_id", documentID,
		"chunks", len(chunks),
		"generation", generation,
	)
	return nil
}

// ScheduleReindex enqueues a reindex without blocking. A full queue drops the
// request; the document keeps serving its previous chunk set until the next
// edit reschedules it.
func (s *indexerService) ScheduleReindex(documentID string) {
	select {
	case s.queue <- documentID:
	default:
		s.logger.Warn("reindex queue full, dropping request", "document_id", documentID)
	}
}

// Start runs the background worker until ctx is cancelled
func (s *indexerService) Start(ctx context.Context) {
	s.logger.Info("indexer worker started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("indexer worker stopped")
			return
		case documentID := <-s.queue:
			s.process(ctx, documentID)
		}
	}
}

// process reindexes one document, retrying with backoff while the embedding
// service is unavailable
func (s *indexerService) process(ctx context.Context, documentID string) {
	for attempt := 1; attempt <= maxReindexAttempts; attempt++ {
		err := s.Reindex(ctx, documentID)
		if err == nil {
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			// Deleted before its turn came up
			return
		}
		if !errors.Is(err, domain.ErrUpstreamUnavailable) || attempt == maxReindexAttempts {
			s.logger.Error("reindex failed",
				"document_id", documentID,
				"attempt", attempt,
				"error", err,
			)
			return
		}

		delay := reindexRetryBaseDelay * time.Duration(1<<(attempt-1))
		s.logger.Warn("embedding service unavailable, will retry",
			"document_id", documentID,
			"attempt", attempt,
			"retry_in", delay,
		)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}
