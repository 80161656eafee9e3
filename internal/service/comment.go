package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/service/converter/sanitizer"
)

type commentService struct {
	commentRepo repositories.CommentRepository
	docRepo     repositories.DocumentRepository
	access      services.AccessService
	sanitizer   *sanitizer.Sanitizer
	logger      *slog.Logger
}

// NewCommentService creates a new comment service
func NewCommentService(
	commentRepo repositories.CommentRepository,
	docRepo repositories.DocumentRepository,
	access services.AccessService,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		docRepo:     docRepo,
		access:      access,
		sanitizer:   sanitizer.NewStrict(),
		logger:      logger,
	}
}

// AddComment adds a plain-text comment to a document
func (s *commentService) AddComment(ctx context.Context, userID, documentID, content string) (*models.Comment, error) {
	// Comments are plain text; markup is stripped, not escaped
	content = strings.TrimSpace(s.sanitizer.Sanitize(content))
	if content == "" {
		return nil, fmt.Errorf("%w: comment cannot be empty", domain.ErrValidation)
	}
	if len(content) > config.MaxCommentLength {
		return nil, fmt.Errorf("%w: comment exceeds %d characters", domain.ErrValidation, config.MaxCommentLength)
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireComment(ctx, doc, userID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		DocumentID: documentID,
		UserID:     userID,
		Content:    content,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment added", "id", comment.ID, "document_id", documentID, "user_id", userID)
	return comment, nil
}

// ListComments lists a document's comments oldest first
func (s *commentService) ListComments(ctx context.Context, userID, documentID string) ([]models.Comment, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRead(ctx, doc, userID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByDocument(ctx, documentID)
}

// DeleteComment removes a comment. The comment author and the document owner
// may delete; everyone else is refused.
func (s *commentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.UserID != userID {
		doc, err := s.docRepo.GetByID(ctx, comment.DocumentID)
		if err != nil {
			return err
		}
		if err := s.access.RequireOwner(ctx, doc, userID); err != nil {
			return err
		}
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.logger.Info("comment deleted", "id", commentID, "user_id", userID)
	return nil
}
