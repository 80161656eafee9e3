package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

var tagColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type tagService struct {
	tagRepo repositories.TagRepository
	docRepo repositories.DocumentRepository
	access  services.AccessService
	logger  *slog.Logger
}

// NewTagService creates a new tag service
func NewTagService(
	tagRepo repositories.TagRepository,
	docRepo repositories.DocumentRepository,
	access services.AccessService,
	logger *slog.Logger,
) services.TagService {
	return &tagService{
		tagRepo: tagRepo,
		docRepo: docRepo,
		access:  access,
		logger:  logger,
	}
}

// CreateTag creates a tag in the owner's catalog
func (s *tagService) CreateTag(ctx context.Context, req *services.CreateTagRequest) (*models.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Color == "" {
		req.Color = "#808080"
	}

	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	tag := &models.Tag{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Color:     req.Color,
		CreatedAt: time.Now(),
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created", "id", tag.ID, "name", tag.Name, "owner_id", tag.OwnerID)
	return tag, nil
}

// ListTags lists the owner's tags
func (s *tagService) ListTags(ctx context.Context, ownerID string) ([]models.Tag, error) {
	return s.tagRepo.ListByOwner(ctx, ownerID)
}

// DeleteTag removes a tag and detaches it from every document
func (s *tagService) DeleteTag(ctx context.Context, ownerID, tagID string) error {
	if err := s.tagRepo.Delete(ctx, tagID, ownerID); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "id", tagID, "owner_id", ownerID)
	return nil
}

// AttachTag labels a document. Tags never cross user boundaries: the tag and
// the document must share an owner, and only that owner may attach.
func (s *tagService) AttachTag(ctx context.Context, userID, documentID, tagID string) error {
	doc, tag, err := s.resolvePair(ctx, userID, documentID, tagID)
	if err != nil {
		return err
	}

	if err := s.tagRepo.Attach(ctx, doc.ID, tag.ID); err != nil {
		return err
	}

	s.logger.Info("tag attached", "document_id", doc.ID, "tag_id", tag.ID)
	return nil
}

// DetachTag removes a label from a document
func (s *tagService) DetachTag(ctx context.Context, userID, documentID, tagID string) error {
	doc, tag, err := s.resolvePair(ctx, userID, documentID, tagID)
	if err != nil {
		return err
	}

	if err := s.tagRepo.Detach(ctx, doc.ID, tag.ID); err != nil {
		return err
	}

	s.logger.Info("tag detached", "document_id", doc.ID, "tag_id", tag.ID)
	return nil
}

// ListDocumentTags lists the tags on a document
func (s *tagService) ListDocumentTags(ctx context.Context, userID, documentID string) ([]models.Tag, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if err := s.access.RequireRead(ctx, doc, userID); err != nil {
		return nil, err
	}
	return s.tagRepo.ListByDocument(ctx, documentID)
}

// resolvePair loads the document and tag and checks both belong to the caller
func (s *tagService) resolvePair(ctx context.Context, userID, documentID, tagID string) (*models.Document, *models.Tag, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.access.RequireOwner(ctx, doc, userID); err != nil {
		return nil, nil, err
	}

	tag, err := s.tagRepo.GetByID(ctx, tagID, userID)
	if err != nil {
		return nil, nil, err
	}
	return doc, tag, nil
}

func (s *tagService) validateCreateRequest(req *services.CreateTagRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxTagNameLength),
		),
		validation.Field(&req.Color,
			validation.Match(tagColorPattern).Error("color must be a hex value like #ff8800"),
		),
	)
}
