package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

// ==== UNIT TESTS for the document lifecycle ====

type docFixture struct {
	docRepo     *fakeDocumentRepo
	folderRepo  *fakeFolderRepo
	versionRepo *fakeVersionRepo
	chunkRepo   *fakeChunkRepo
	shareRepo   *fakeShareRepo
	commentRepo *fakeCommentRepo
	tagRepo     *fakeTagRepo
	service     services.DocumentService
	versions    services.VersionService
}

func newDocFixture() *docFixture {
	docRepo := newFakeDocumentRepo()
	folderRepo := newFakeFolderRepo()
	versionRepo := newFakeVersionRepo()
	chunkRepo := newFakeChunkRepo(docRepo)
	shareRepo := newFakeShareRepo()
	commentRepo := newFakeCommentRepo()
	tagRepo := newFakeTagRepo()
	extractedRepo := newFakeExtractedRepo()

	access := NewAccessService(docRepo, shareRepo, testLogger())
	versions := NewVersionService(versionRepo, docRepo, access, fakeTx(), testLogger())
	indexer := NewIndexerService(docRepo, chunkRepo, fakeTx(), newFakeEmbedder(), NewChunker(800, 160), testLogger())
	purger := NewDocumentPurger(docRepo, versionRepo, chunkRepo, shareRepo, commentRepo, tagRepo, extractedRepo)

	return &docFixture{
		docRepo:     docRepo,
		folderRepo:  folderRepo,
		versionRepo: versionRepo,
		chunkRepo:   chunkRepo,
		shareRepo:   shareRepo,
		commentRepo: commentRepo,
		tagRepo:     tagRepo,
		service:     NewDocumentService(docRepo, folderRepo, versions, indexer, access, purger, fakeTx(), testLogger()),
		versions:    versions,
	}
}

func (f *docFixture) mustCreate(t *testing.T, ownerID, name, content string) *models.Document {
	t.Helper()
	doc, err := f.service.CreateDocument(context.Background(), &services.CreateDocumentRequest{
		OwnerID: ownerID,
		Name:    name,
		Content: content,
	})
	if err != nil {
		t.Fatalf("creating document %q: %v", name, err)
	}
	return doc
}

func TestCreateDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	tests := []struct {
		name     string
		docName  string
		content  string
		folderID *string
		wantErr  error
	}{
		{name: "plain document", docName: "Notes", content: "one two three"},
		{name: "empty name rejected", docName: "", wantErr: domain.ErrValidation},
		{name: "missing folder rejected", docName: "x", folderID: strPtr("nope"), wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := f.service.CreateDocument(ctx, &services.CreateDocumentRequest{
				OwnerID:  "alice",
				Name:     tt.docName,
				Content:  tt.content,
				FolderID: tt.folderID,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateDocument: %v", err)
			}
			if doc.WordCount != 3 {
				t.Errorf("word count = %d, want 3", doc.WordCount)
			}
		})
	}
}

func TestUpdateContentCommitsPriorState(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "hello")

	// hello -> goodbye -> farewell: each edit commits the state it replaces
	if _, err := f.service.UpdateContent(ctx, "alice", doc.ID, "goodbye"); err != nil {
		t.Fatalf("first edit: %v", err)
	}
	if _, err := f.service.UpdateContent(ctx, "alice", doc.ID, "farewell"); err != nil {
		t.Fatalf("second edit: %v", err)
	}

	versions, err := f.versions.ListVersions(ctx, "alice", doc.ID, 0, 0)
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(versions))
	}
	if versions[0].Content != "hello" || versions[1].Content != "goodbye" {
		t.Errorf("ledger holds %q then %q, want the replaced states",
			versions[0].Content, versions[1].Content)
	}

	live, err := f.docRepo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if live.Content != "farewell" {
		t.Errorf("live content = %q, want farewell", live.Content)
	}
}

func TestUpdateContentPermissions(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionRead,
	})

	if _, err := f.service.UpdateContent(ctx, "bob", doc.ID, "vandalism"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("reader edit: got %v, want forbidden", err)
	}
	if _, err := f.service.UpdateContent(ctx, "mallory", doc.ID, "vandalism"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("stranger edit: got %v, want not found", err)
	}
}

func TestGetDocumentSharedAccess(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")

	if _, err := f.service.GetDocument(ctx, "bob", doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unshared read: got %v, want not found", err)
	}

	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionRead,
	})
	got, err := f.service.GetDocument(ctx, "bob", doc.ID)
	if err != nil {
		t.Fatalf("shared read: %v", err)
	}
	if got.ID != doc.ID {
		t.Errorf("got document %q, want %q", got.ID, doc.ID)
	}
}

func TestMoveDocument(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")

	folder := &models.Folder{OwnerID: "alice", Name: "dest"}
	if err := f.folderRepo.Create(ctx, folder); err != nil {
		t.Fatalf("creating folder: %v", err)
	}

	moved, err := f.service.MoveDocument(ctx, "alice", doc.ID, &folder.ID)
	if err != nil {
		t.Fatalf("MoveDocument: %v", err)
	}
	if moved.FolderID == nil || *moved.FolderID != folder.ID {
		t.Errorf("folder = %v, want %q", moved.FolderID, folder.ID)
	}

	backToRoot, err := f.service.MoveDocument(ctx, "alice", doc.ID, nil)
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if backToRoot.FolderID != nil {
		t.Error("document should sit at root")
	}

	if _, err := f.service.MoveDocument(ctx, "alice", doc.ID, strPtr("nope")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing destination: got %v, want validation error", err)
	}
}

func TestMoveDocumentOwnerOnly(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionWrite,
	})

	// Even a writer cannot relocate someone else's document
	if _, err := f.service.MoveDocument(ctx, "bob", doc.ID, nil); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("got %v, want forbidden", err)
	}
}

func TestDeleteDocumentPurgesChildren(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")

	if _, err := f.service.UpdateContent(ctx, "alice", doc.ID, "v2"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionRead,
	})
	f.commentRepo.Create(ctx, &models.Comment{DocumentID: doc.ID, UserID: "bob", Content: "hi"})

	if err := f.service.DeleteDocument(ctx, "alice", doc.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, err := f.docRepo.GetByID(ctx, doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("document row survived")
	}
	if max, _ := f.versionRepo.MaxVersion(ctx, doc.ID); max != 0 {
		t.Error("version ledger survived")
	}
	if shares, _ := f.shareRepo.ListByDocument(ctx, doc.ID); len(shares) != 0 {
		t.Error("shares survived")
	}
	if comments, _ := f.commentRepo.ListByDocument(ctx, doc.ID); len(comments) != 0 {
		t.Error("comments survived")
	}
}

func TestDeleteDocumentOwnerOnly(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "doc", "body")
	f.shareRepo.Create(ctx, &models.DocumentShare{
		DocumentID: doc.ID, UserID: "bob", Permission: models.PermissionWrite,
	})

	if err := f.service.DeleteDocument(ctx, "bob", doc.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("writer delete: got %v, want forbidden", err)
	}
}

func TestImportHTML(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()

	doc, err := f.service.ImportHTML(ctx, &services.ImportHTMLRequest{
		OwnerID: "alice",
		Name:    "Imported",
		HTML:    `<h1>Title</h1><p>Hello <strong>world</strong></p><script>alert(1)</script>`,
	})
	if err != nil {
		t.Fatalf("ImportHTML: %v", err)
	}

	if !strings.Contains(doc.Content, "# Title") {
		t.Errorf("heading not converted: %q", doc.Content)
	}
	if !strings.Contains(doc.Content, "**world**") {
		t.Errorf("emphasis not converted: %q", doc.Content)
	}
	if strings.Contains(doc.Content, "alert") {
		t.Errorf("script content survived sanitization: %q", doc.Content)
	}
}

func TestImportHTMLEmptyPayload(t *testing.T) {
	f := newDocFixture()
	_, err := f.service.ImportHTML(context.Background(), &services.ImportHTMLRequest{
		OwnerID: "alice",
		Name:    "x",
		HTML:    "   ",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want validation error", err)
	}
}

func TestUpdateContentSurvivesVersionNumberRace(t *testing.T) {
	f := newDocFixture()
	ctx := context.Background()
	doc := f.mustCreate(t, "alice", "Notes", "hello")

	// One lost race on the version number; the commit retry absorbs it and
	// the edit still lands
	f.versionRepo.failInsertAttempts = 1
	updated, err := f.service.UpdateContent(ctx, "alice", doc.ID, "goodbye")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if updated.Content != "goodbye" {
		t.Errorf("live content = %q, want %q", updated.Content, "goodbye")
	}

	versions, err := f.versions.ListVersions(ctx, "alice", doc.ID, 0, 0)
	if err != nil {
		t.Fatalf("listing versions: %v", err)
	}
	if len(versions) != 1 {
		t.Fatalf("ledger has %d entries, want 1", len(versions))
	}
	if versions[0].Version != 1 || versions[0].Content != "hello" {
		t.Errorf("ledger entry = v%d %q, want v1 %q", versions[0].Version, versions[0].Content, "hello")
	}
}

// txDepthKey counts how deeply ExecTx calls nest, so a test can verify that
// the ledger insert never runs inside another service's transaction.
type txDepthKey struct{}

type depthTxManager struct{}

func (depthTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	depth, _ := ctx.Value(txDepthKey{}).(int)
	return fn(context.WithValue(ctx, txDepthKey{}, depth+1))
}

type txDepthVersionRepo struct {
	*fakeVersionRepo
	maxInsertDepth int
}

func (r *txDepthVersionRepo) Insert(ctx context.Context, version *models.DocumentVersion) error {
	if depth, _ := ctx.Value(txDepthKey{}).(int); depth > r.maxInsertDepth {
		r.maxInsertDepth = depth
	}
	return r.fakeVersionRepo.Insert(ctx, version)
}

func TestUpdateContentCommitsLedgerInItsOwnTransaction(t *testing.T) {
	docRepo := newFakeDocumentRepo()
	versionRepo := &txDepthVersionRepo{fakeVersionRepo: newFakeVersionRepo()}
	chunkRepo := newFakeChunkRepo(docRepo)
	shareRepo := newFakeShareRepo()
	tx := depthTxManager{}

	access := NewAccessService(docRepo, shareRepo, testLogger())
	versions := NewVersionService(versionRepo, docRepo, access, tx, testLogger())
	indexer := NewIndexerService(docRepo, chunkRepo, tx, newFakeEmbedder(), NewChunker(800, 160), testLogger())
	purger := NewDocumentPurger(docRepo, versionRepo, chunkRepo, shareRepo, newFakeCommentRepo(), newFakeTagRepo(), newFakeExtractedRepo())
	svc := NewDocumentService(docRepo, newFakeFolderRepo(), versions, indexer, access, purger, tx, testLogger())

	ctx := context.Background()
	doc := &models.Document{OwnerID: "alice", Name: "doc", Content: "hello"}
	if err := docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("creating document: %v", err)
	}

	if _, err := svc.UpdateContent(ctx, "alice", doc.ID, "goodbye"); err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}

	// Depth 1 is the commit's own transaction. Anything deeper means the
	// insert joined an enclosing transaction, where a version-number
	// conflict would poison every retry.
	if versionRepo.maxInsertDepth != 1 {
		t.Errorf("ledger insert ran at transaction depth %d, want 1", versionRepo.maxInsertDepth)
	}
}
