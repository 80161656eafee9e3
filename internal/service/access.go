package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// accessService resolves effective permissions from ownership and share grants
type accessService struct {
	documentRepo repositories.DocumentRepository
	shareRepo    repositories.ShareRepository
	logger       *slog.Logger
}

// NewAccessService creates a new access service
func NewAccessService(
	documentRepo repositories.DocumentRepository,
	shareRepo repositories.ShareRepository,
	logger *slog.Logger,
) services.AccessService {
	return &accessService{
		documentRepo: documentRepo,
		shareRepo:    shareRepo,
		logger:       logger,
	}
}

func (s *accessService) EffectivePermission(ctx context.Context, doc *models.Document, userID string) services.AccessLevel {
	if doc == nil || userID == "" {
		return services.AccessNone
	}
	if doc.OwnerID == userID {
		return services.AccessOwner
	}

	share, err := s.shareRepo.Get(ctx, doc.ID, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("share lookup failed",
				"document_id", doc.ID,
				"user_id", userID,
				"error", err)
		}
		return services.AccessNone
	}
	return services.LevelFromPermission(share.Permission)
}

func (s *accessService) RequireRead(ctx context.Context, doc *models.Document, userID string) error {
	if s.EffectivePermission(ctx, doc, userID).CanRead() {
		return nil
	}
	// Invisible documents 404 rather than 403 so existence does not leak
	return &domain.NotFoundError{Message: "document not found"}
}

func (s *accessService) RequireComment(ctx context.Context, doc *models.Document, userID string) error {
	level := s.EffectivePermission(ctx, doc, userID)
	if level.CanComment() {
		return nil
	}
	if !level.CanRead() {
		return &domain.NotFoundError{Message: "document not found"}
	}
	return &domain.ForbiddenError{Message: "commenting requires comment access"}
}

func (s *accessService) RequireWrite(ctx context.Context, doc *models.Document, userID string) error {
	level := s.EffectivePermission(ctx, doc, userID)
	if level.CanWrite() {
		return nil
	}
	if !level.CanRead() {
		return &domain.NotFoundError{Message: "document not found"}
	}
	return &domain.ForbiddenError{Message: "editing requires write access"}
}

func (s *accessService) RequireOwner(ctx context.Context, doc *models.Document, userID string) error {
	level := s.EffectivePermission(ctx, doc, userID)
	if level.IsOwner() {
		return nil
	}
	if !level.CanRead() {
		return &domain.NotFoundError{Message: "document not found"}
	}
	return &domain.ForbiddenError{Message: "only the owner may do this"}
}

func (s *accessService) ReadableDocumentIDs(ctx context.Context, userID string) ([]string, error) {
	owned, err := s.documentRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing owned documents: %w", err)
	}
	shares, err := s.shareRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing shares: %w", err)
	}

	seen := make(map[string]struct{}, len(owned)+len(shares))
	ids := make([]string, 0, len(owned)+len(shares))
	for _, doc := range owned {
		if _, ok := seen[doc.ID]; !ok {
			seen[doc.ID] = struct{}{}
			ids = append(ids, doc.ID)
		}
	}
	for _, share := range shares {
		if _, ok := seen[share.DocumentID]; !ok {
			seen[share.DocumentID] = struct{}{}
			ids = append(ids, share.DocumentID)
		}
	}
	return ids, nil
}
