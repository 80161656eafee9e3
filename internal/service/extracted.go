package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type extractionService struct {
	extractedRepo repositories.ExtractedDatumRepository
	docRepo       repositories.DocumentRepository
	access        services.AccessService
	logger        *slog.Logger
}

// NewExtractionService creates a new extraction service
func NewExtractionService(
	extractedRepo repositories.ExtractedDatumRepository,
	docRepo repositories.DocumentRepository,
	access services.AccessService,
	logger *slog.Logger,
) services.ExtractionService {
	return &extractionService{
		extractedRepo: extractedRepo,
		docRepo:       docRepo,
		access:        access,
		logger:        logger,
	}
}

// RecordDatum stores one structured fact against a document
func (s *extractionService) RecordDatum(ctx context.Context, userID string, req *services.RecordDatumRequest) (*models.ExtractedDatum, error) {
	if strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%w: type is required", domain.ErrValidation)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}

	doc, err := s.docRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireWrite(ctx, doc, userID); err != nil {
		return nil, err
	}

	datum := &models.ExtractedDatum{
		DocumentID: req.DocumentID,
		Type:       req.Type,
		Content:    req.Content,
		Metadata:   req.Metadata,
		CreatedAt:  time.Now(),
	}
	if err := s.extractedRepo.Create(ctx, datum); err != nil {
		return nil, err
	}

	s.logger.Info("extracted datum recorded",
		"id", datum.ID,
		"document_id", datum.DocumentID,
		"type", datum.Type,
	)
	return datum, nil
}

// ListData lists a document's extracted facts
func (s *extractionService) ListData(ctx context.Context, userID, documentID string) ([]models.ExtractedDatum, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRead(ctx, doc, userID); err != nil {
		return nil, err
	}
	return s.extractedRepo.ListByDocument(ctx, documentID)
}
