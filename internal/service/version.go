package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// versionService is the append-only document version ledger. Version numbers
// are dense per document starting at 1; an entry is never updated or removed
// while its document lives.
type versionService struct {
	versionRepo repositories.VersionRepository
	docRepo     repositories.DocumentRepository
	access      services.AccessService
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	versionRepo repositories.VersionRepository,
	docRepo repositories.DocumentRepository,
	access services.AccessService,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.VersionService {
	return &versionService{
		versionRepo: versionRepo,
		docRepo:     docRepo,
		access:      access,
		txManager:   txManager,
		logger:      logger,
	}
}

// CommitSnapshot appends the snapshot as version max+1. Two editors can race
// on the same number; the unique (document, version) constraint rejects the
// loser and the loop recomputes and resubmits. Each attempt needs its own
// transaction: callers must not invoke this inside ExecTx, because a lost
// race aborts the joined transaction and every retry after it would fail.
func (s *versionService) CommitSnapshot(ctx context.Context, documentID, editorID string, snapshot services.Snapshot) (*models.DocumentVersion, error) {
	var committed *models.DocumentVersion

	for attempt := 0; attempt < config.MaxVersionCommitRetries; attempt++ {
		err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
			max, err := s.versionRepo.MaxVersion(txCtx, documentID)
			if err != nil {
				return fmt.Errorf("reading max version: %w", err)
			}

			version := &models.DocumentVersion{
				DocumentID: documentID,
				Version:    max + 1,
				Content:    snapshot.Content,
				FileURL:    snapshot.FileURL,
				EditorID:   editorID,
				CreatedAt:  time.Now(),
			}
			if err := s.versionRepo.Insert(txCtx, version); err != nil {
				return err
			}
			committed = version
			return nil
		})
		if err == nil {
			s.logger.Debug("version committed",
				"document_id", documentID,
				"version", committed.Version,
				"editor_id", editorID,
			)
			return committed, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		s.logger.Debug("version number contention, retrying",
			"document_id", documentID,
			"attempt", attempt+1,
		)
	}

	return nil, &domain.ConflictError{
		Message:      "version commit lost the race repeatedly, try again",
		ResourceType: "version",
		ResourceID:   documentID,
	}
}

// CommitCurrent snapshots the document's live state
func (s *versionService) CommitCurrent(ctx context.Context, userID, documentID string) (*models.DocumentVersion, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireWrite(ctx, doc, userID); err != nil {
		return nil, err
	}

	return s.CommitSnapshot(ctx, documentID, userID, services.Snapshot{
		Content: doc.Content,
		FileURL: doc.FileURL,
	})
}

// ListVersions returns ledger entries ascending within the inclusive
// [from, to] range; zero means unbounded on that side
func (s *versionService) ListVersions(ctx context.Context, userID, documentID string, from, to int) ([]models.DocumentVersion, error) {
	if from < 0 || to < 0 {
		return nil, fmt.Errorf("%w: version bounds cannot be negative", domain.ErrValidation)
	}
	if from > 0 && to > 0 && from > to {
		return nil, fmt.Errorf("%w: range start exceeds range end", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRead(ctx, doc, userID); err != nil {
		return nil, err
	}

	return s.versionRepo.ListByDocument(ctx, documentID, from, to)
}

// RestoreVersion makes a historical snapshot the live content by appending it
// as a new version. The ledger never rewinds: restoring version 2 of a
// five-version document produces version 6.
func (s *versionService) RestoreVersion(ctx context.Context, userID, documentID string, version int) (*models.DocumentVersion, error) {
	if version < 1 {
		return nil, fmt.Errorf("%w: version numbers start at 1", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireWrite(ctx, doc, userID); err != nil {
		return nil, err
	}

	historical, err := s.versionRepo.GetByVersion(ctx, documentID, version)
	if err != nil {
		return nil, err
	}

	// Appended first, in its own transactions, so the conflict retry inside
	// CommitSnapshot works. If the live update below fails the ledger keeps
	// the extra entry, which is harmless in an append-only history.
	committed, err := s.CommitSnapshot(ctx, documentID, userID, services.Snapshot{
		Content: historical.Content,
		FileURL: historical.FileURL,
	})
	if err != nil {
		return nil, err
	}

	doc.Content = historical.Content
	doc.FileURL = historical.FileURL
	doc.WordCount = countWords(historical.Content)
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("version restored",
		"document_id", documentID,
		"restored_from", version,
		"new_version", committed.Version,
	)
	return committed, nil
}
