package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/service/converter"
)

type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	versions   services.VersionService
	indexer    services.IndexerService
	access     services.AccessService
	purger     *DocumentPurger
	txManager  repositories.TransactionManager
	html       *converter.HTMLConverter
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	versions services.VersionService,
	indexer services.IndexerService,
	access services.AccessService,
	purger *DocumentPurger,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		versions:   versions,
		indexer:    indexer,
		access:     access,
		purger:     purger,
		txManager:  txManager,
		html:       converter.NewHTMLConverter(),
		logger:     logger,
	}
}

// CreateDocument creates a document and schedules its first indexing
func (s *documentService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.FolderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *req.FolderID, req.OwnerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: folder does not exist", domain.ErrValidation)
			}
			return nil, err
		}
	}

	doc := &models.Document{
		OwnerID:   req.OwnerID,
		FolderID:  req.FolderID,
		Name:      req.Name,
		Content:   req.Content,
		FileURL:   req.FileURL,
		WordCount: countWords(req.Content),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.indexer.ScheduleReindex(doc.ID)

	s.logger.Info("document created",
		"id", doc.ID,
		"name", doc.Name,
		"owner_id", doc.OwnerID,
		"folder_id", doc.FolderID,
		"word_count", doc.WordCount,
	)
	return doc, nil
}

// GetDocument retrieves a document the user may read
func (s *documentService) GetDocument(ctx context.Context, userID, id string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRead(ctx, doc, userID); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateContent replaces the document body. The state being replaced is
// committed to the ledger before the update, so every past state that ever
// got overwritten remains recoverable.
func (s *documentService) UpdateContent(ctx context.Context, userID, id string, content string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireWrite(ctx, doc, userID); err != nil {
		return nil, err
	}

	prior := services.Snapshot{Content: doc.Content, FileURL: doc.FileURL}

	// Committed before the update, not in one shared transaction: the commit
	// retries version-number races in transactions of its own, and a lost
	// race inside a joined transaction would abort every retry. Should the
	// update fail afterwards, the extra ledger entry merely duplicates the
	// still-live content.
	if _, err := s.versions.CommitSnapshot(ctx, doc.ID, userID, prior); err != nil {
		return nil, err
	}

	doc.Content = content
	doc.WordCount = countWords(content)
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	// Indexing is asynchronous; the edit is durable whether or not the
	// embedding service is reachable right now
	s.indexer.ScheduleReindex(doc.ID)

	s.logger.Info("document content updated",
		"id", doc.ID,
		"editor_id", userID,
		"word_count", doc.WordCount,
	)
	return doc, nil
}

// RenameDocument changes the display name
func (s *documentService) RenameDocument(ctx context.Context, userID, id, name string) (*models.Document, error) {
	name = strings.TrimSpace(name)
	if err := s.validateName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireWrite(ctx, doc, userID); err != nil {
		return nil, err
	}

	doc.Name = name
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document renamed", "id", doc.ID, "name", doc.Name)
	return doc, nil
}

// MoveDocument relocates the document to another folder of the same owner
func (s *documentService) MoveDocument(ctx context.Context, userID, id string, folderID *string) (*models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, doc, userID); err != nil {
		return nil, err
	}

	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, doc.OwnerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("%w: destination folder does not exist", domain.ErrValidation)
			}
			return nil, err
		}
	}

	doc.FolderID = folderID
	doc.UpdatedAt = time.Now()
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document moved", "id", doc.ID, "folder_id", doc.FolderID)
	return doc, nil
}

// DeleteDocument hard-deletes the document and everything it owns
func (s *documentService) DeleteDocument(ctx context.Context, userID, id string) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.RequireOwner(ctx, doc, userID); err != nil {
		return err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		return s.purger.purgeDocument(txCtx, doc.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", id, "owner_id", doc.OwnerID)
	return nil
}

// ImportHTML sanitizes and converts an HTML payload, then creates a document
// from the resulting markdown
func (s *documentService) ImportHTML(ctx context.Context, req *services.ImportHTMLRequest) (*models.Document, error) {
	if strings.TrimSpace(req.HTML) == "" {
		return nil, fmt.Errorf("%w: html payload cannot be empty", domain.ErrValidation)
	}

	markdown, err := s.html.Convert(req.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	return s.CreateDocument(ctx, &services.CreateDocumentRequest{
		OwnerID:  req.OwnerID,
		Name:     req.Name,
		FolderID: req.FolderID,
		Content:  markdown,
	})
}

// validateName validates a document name
func (s *documentService) validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxDocumentNameLength),
	)
}
