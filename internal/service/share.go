package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type shareService struct {
	shareRepo repositories.ShareRepository
	docRepo   repositories.DocumentRepository
	access    services.AccessService
	logger    *slog.Logger
}

// NewShareService creates a new share service
func NewShareService(
	shareRepo repositories.ShareRepository,
	docRepo repositories.DocumentRepository,
	access services.AccessService,
	logger *slog.Logger,
) services.ShareService {
	return &shareService{
		shareRepo: shareRepo,
		docRepo:   docRepo,
		access:    access,
		logger:    logger,
	}
}

// GrantShare creates a share grant on a document
func (s *shareService) GrantShare(ctx context.Context, req *services.GrantShareRequest) (*models.DocumentShare, error) {
	if !req.Permission.Valid() {
		return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, req.Permission)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", domain.ErrValidation)
	}

	doc, err := s.requireOwnedDocument(ctx, req.OwnerID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if req.UserID == doc.OwnerID {
		return nil, fmt.Errorf("%w: the owner already has full access", domain.ErrValidation)
	}

	share := &models.DocumentShare{
		DocumentID: doc.ID,
		UserID:     req.UserID,
		Permission: req.Permission,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.shareRepo.Create(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("share granted",
		"document_id", doc.ID,
		"user_id", req.UserID,
		"permission", req.Permission,
	)
	return share, nil
}

// UpdateShare changes the permission of an existing grant
func (s *shareService) UpdateShare(ctx context.Context, ownerID, documentID, userID string, permission models.Permission) (*models.DocumentShare, error) {
	if !permission.Valid() {
		return nil, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, permission)
	}

	if _, err := s.requireOwnedDocument(ctx, ownerID, documentID); err != nil {
		return nil, err
	}

	share, err := s.shareRepo.Get(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	share.Permission = permission
	share.UpdatedAt = time.Now()
	if err := s.shareRepo.Update(ctx, share); err != nil {
		return nil, err
	}

	s.logger.Info("share updated",
		"document_id", documentID,
		"user_id", userID,
		"permission", permission,
	)
	return share, nil
}

// RevokeShare removes a grant. Takes effect on the user's next request;
// nothing they hold in memory is recalled.
func (s *shareService) RevokeShare(ctx context.Context, ownerID, documentID, userID string) error {
	if _, err := s.requireOwnedDocument(ctx, ownerID, documentID); err != nil {
		return err
	}

	if err := s.shareRepo.Delete(ctx, documentID, userID); err != nil {
		return err
	}

	s.logger.Info("share revoked", "document_id", documentID, "user_id", userID)
	return nil
}

// ListShares lists the grants on a document
func (s *shareService) ListShares(ctx context.Context, ownerID, documentID string) ([]models.DocumentShare, error) {
	if _, err := s.requireOwnedDocument(ctx, ownerID, documentID); err != nil {
		return nil, err
	}
	return s.shareRepo.ListByDocument(ctx, documentID)
}

func (s *shareService) requireOwnedDocument(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireOwner(ctx, doc, ownerID); err != nil {
		return nil, err
	}
	return doc, nil
}
