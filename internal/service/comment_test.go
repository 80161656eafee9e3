package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

// ==== UNIT TESTS for comments ====

type commentFixture struct {
	commentRepo *fakeCommentRepo
	docRepo     *fakeDocumentRepo
	shareRepo   *fakeShareRepo
	service     services.CommentService
}

func newCommentFixture() *commentFixture {
	commentRepo := newFakeCommentRepo()
	docRepo := newFakeDocumentRepo()
	shareRepo := newFakeShareRepo()
	access := NewAccessService(docRepo, shareRepo, testLogger())
	return &commentFixture{
		commentRepo: commentRepo,
		docRepo:     docRepo,
		shareRepo:   shareRepo,
		service:     NewCommentService(commentRepo, docRepo, access, testLogger()),
	}
}

func (f *commentFixture) addDocument(t *testing.T, ownerID string) *models.Document {
	t.Helper()
	doc := &models.Document{OwnerID: ownerID, Name: "doc"}
	if err := f.docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("creating doc: %v", err)
	}
	return doc
}

func TestAddCommentSanitizes(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.addDocument(t, "alice")

	comment, err := f.service.AddComment(ctx, "alice", doc.ID, `nice <script>alert(1)</script>work`)
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if strings.Contains(comment.Content, "<script>") || strings.Contains(comment.Content, "alert") {
		t.Errorf("markup survived sanitization: %q", comment.Content)
	}
	if !strings.Contains(comment.Content, "nice") {
		t.Errorf("text lost in sanitization: %q", comment.Content)
	}
}

func TestAddCommentValidation(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.addDocument(t, "alice")

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty", content: ""},
		{name: "whitespace", content: "   "},
		{name: "markup only", content: "<b></b>"},
		{name: "too long", content: strings.Repeat("a", config.MaxCommentLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddComment(ctx, "alice", doc.ID, tt.content)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestAddCommentPermissions(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.addDocument(t, "alice")
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionRead,
	})
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "carol", Permission: models.PermissionComment,
	})

	if _, err := f.service.AddComment(ctx, "bob", doc.ID, "hi"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("reader comment: got %v, want forbidden", err)
	}
	if _, err := f.service.AddComment(ctx, "mallory", doc.ID, "hi"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stranger comment: got %v, want not found", err)
	}
	if _, err := f.service.AddComment(ctx, "carol", doc.ID, "hi"); err != nil {
		t.Errorf("commenter: %v", err)
	}
}

func TestDeleteComment(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.addDocument(t, "alice")
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionComment,
	})
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "carol", Permission: models.PermissionComment,
	})

	bobsComment, err := f.service.AddComment(ctx, "bob", doc.ID, "from bob")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	// Another commenter may not remove it
	if err := f.service.DeleteComment(ctx, "carol", bobsComment.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("peer delete: got %v, want forbidden", err)
	}
	// The author may
	if err := f.service.DeleteComment(ctx, "bob", bobsComment.ID); err != nil {
		t.Errorf("author delete: %v", err)
	}

	// The document owner may remove anyone's comment
	second, err := f.service.AddComment(ctx, "bob", doc.ID, "again")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if err := f.service.DeleteComment(ctx, "alice", second.ID); err != nil {
		t.Errorf("owner delete: %v", err)
	}
}

func TestListCommentsRequiresRead(t *testing.T) {
	f := newCommentFixture()
	ctx := context.Background()
	doc := f.addDocument(t, "alice")
	if _, err := f.service.AddComment(ctx, "alice", doc.ID, "note"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	comments, err := f.service.ListComments(ctx, "alice", doc.ID)
	if err != nil {
		t.Fatalf("ListComments: %v", err)
	}
	if len(comments) != 1 {
		t.Errorf("got %d comments, want 1", len(comments))
	}

	if _, err := f.service.ListComments(ctx, "mallory", doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stranger listing: got %v, want not found", err)
	}
}
