package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	lorem "github.com/drhodes/golorem"

	"docvault/internal/domain/services"
)

// Seeder creates sample data through the service layer, so seeded rows go
// through the same validation, versioning and indexing as real traffic.
type Seeder struct {
	docService    services.DocumentService
	folderService services.FolderService
	tagService    services.TagService
	logger        *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(
	docService services.DocumentService,
	folderService services.FolderService,
	tagService services.TagService,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		docService:    docService,
		folderService: folderService,
		tagService:    tagService,
		logger:        logger,
	}
}

// folderSpec describes one seeded folder with its documents
type folderSpec struct {
	name      string
	docs      int
	subFolder *folderSpec
}

// Seed fills the user's workspace with a small folder tree of lorem documents
// and a few tags
func (s *Seeder) Seed(ctx context.Context, userID string) error {
	specs := []folderSpec{
		{name: "Notes", docs: 3},
		{name: "Research", docs: 2, subFolder: &folderSpec{name: "Archive", docs: 2}},
		{name: "Drafts", docs: 1},
	}

	var firstDocID string
	for _, spec := range specs {
		folder, err := s.folderService.CreateFolder(ctx, &services.CreateFolderRequest{
			OwnerID: userID,
			Name:    spec.name,
		})
		if err != nil {
			return fmt.Errorf("creating folder %q: %w", spec.name, err)
		}

		docID, err := s.seedDocuments(ctx, userID, &folder.ID, spec.docs)
		if err != nil {
			return err
		}
		if firstDocID == "" {
			firstDocID = docID
		}

		if spec.subFolder != nil {
			sub, err := s.folderService.CreateFolder(ctx, &services.CreateFolderRequest{
				OwnerID:  userID,
				Name:     spec.subFolder.name,
				ParentID: &folder.ID,
			})
			if err != nil {
				return fmt.Errorf("creating folder %q: %w", spec.subFolder.name, err)
			}
			if _, err := s.seedDocuments(ctx, userID, &sub.ID, spec.subFolder.docs); err != nil {
				return err
			}
		}
	}

	// A couple of root-level documents
	if _, err := s.seedDocuments(ctx, userID, nil, 2); err != nil {
		return err
	}

	// Tag catalog, first tag attached to the first document
	tagNames := []struct{ name, color string }{
		{"important", "#d32f2f"},
		{"reference", "#1976d2"},
		{"todo", "#f9a825"},
	}
	for i, t := range tagNames {
		tag, err := s.tagService.CreateTag(ctx, &services.CreateTagRequest{
			OwnerID: userID,
			Name:    t.name,
			Color:   t.color,
		})
		if err != nil {
			return fmt.Errorf("creating tag %q: %w", t.name, err)
		}
		if i == 0 && firstDocID != "" {
			if err := s.tagService.AttachTag(ctx, userID, firstDocID, tag.ID); err != nil {
				return fmt.Errorf("attaching tag: %w", err)
			}
		}
	}

	s.logger.Info("seed complete", "user_id", userID)
	return nil
}

// seedDocuments creates n lorem documents in the given folder and returns the
// first document's ID
func (s *Seeder) seedDocuments(ctx context.Context, userID string, folderID *string, n int) (string, error) {
	var firstID string
	for i := 0; i < n; i++ {
		doc, err := s.docService.CreateDocument(ctx, &services.CreateDocumentRequest{
			OwnerID:  userID,
			FolderID: folderID,
			Name:     capitalize(lorem.Word(4, 10)) + " " + lorem.Word(4, 10),
			Content:  loremMarkdown(),
		})
		if err != nil {
			return "", fmt.Errorf("creating document: %w", err)
		}
		if firstID == "" {
			firstID = doc.ID
		}
	}
	return firstID, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// loremMarkdown generates a small markdown document
func loremMarkdown() string {
	var b strings.Builder
	b.WriteString("# " + lorem.Sentence(3, 6) + "\n\n")
	for i := 0; i < 3; i++ {
		b.WriteString(lorem.Paragraph(3, 6))
		b.WriteString("\n\n")
	}
	b.WriteString("## " + lorem.Sentence(2, 4) + "\n\n")
	b.WriteString("- " + lorem.Sentence(4, 8) + "\n")
	b.WriteString("- " + lorem.Sentence(4, 8) + "\n")
	return b.String()
}
