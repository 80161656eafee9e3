package service

import (
	"context"
	"fmt"

	"docvault/internal/domain/repositories"
)

// DocumentPurger hard-deletes a document together with every owned child
// row: versions, chunks, shares, comments, tag joins and extracted data.
// Callers are responsible for running it inside a transaction so a partial
// delete can never become visible.
type DocumentPurger struct {
	documentRepo  repositories.DocumentRepository
	versionRepo   repositories.VersionRepository
	chunkRepo     repositories.ChunkRepository
	shareRepo     repositories.ShareRepository
	commentRepo   repositories.CommentRepository
	tagRepo       repositories.TagRepository
	extractedRepo repositories.ExtractedDatumRepository
}

// NewDocumentPurger wires the purger from the full set of child repositories
func NewDocumentPurger(
	documentRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	chunkRepo repositories.ChunkRepository,
	shareRepo repositories.ShareRepository,
	commentRepo repositories.CommentRepository,
	tagRepo repositories.TagRepository,
	extractedRepo repositories.ExtractedDatumRepository,
) *DocumentPurger {
	return &DocumentPurger{
		documentRepo:  documentRepo,
		versionRepo:   versionRepo,
		chunkRepo:     chunkRepo,
		shareRepo:     shareRepo,
		commentRepo:   commentRepo,
		tagRepo:       tagRepo,
		extractedRepo: extractedRepo,
	}
}

func (p *DocumentPurger) purgeDocument(ctx context.Context, documentID string) error {
	if err := p.versionRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting versions: %w", err)
	}
	if err := p.chunkRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if err := p.shareRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting shares: %w", err)
	}
	if err := p.commentRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting comments: %w", err)
	}
	if err := p.tagRepo.DetachAllFromDocument(ctx, documentID); err != nil {
		return fmt.Errorf("detaching tags: %w", err)
	}
	if err := p.extractedRepo.DeleteByDocument(ctx, documentID); err != nil {
		return fmt.Errorf("deleting extracted data: %w", err)
	}
	if err := p.documentRepo.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}
