package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// In-memory repository fakes. They mirror the persistence contracts closely
// enough to drive the services: uniqueness violations surface ErrConflict,
// lookups miss with NotFoundError, committed-chunk queries join against the
// document's generation pointer.

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func fakeTx() repositories.TransactionManager {
	return fakeTxManager{}
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

// ---- documents ----

type fakeDocumentRepo struct {
	mu   sync.Mutex
	seq  int
	docs map[string]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if doc.ID == "" {
		doc.ID = r.nextID("doc")
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.docs[doc.ID]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	copied := *doc
	// Update never writes the generation pointer; only SetChunkGeneration does
	copied.ChunkGeneration = existing.ChunkGeneration
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	delete(r.docs, id)
	return nil
}

func (r *fakeDocumentRepo) ListByFolder(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, doc := range r.docs {
		if doc.OwnerID != ownerID {
			continue
		}
		if (folderID == nil) != (doc.FolderID == nil) {
			continue
		}
		if folderID != nil && *doc.FolderID != *folderID {
			continue
		}
		out = append(out, *doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocumentRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Document
	for _, doc := range r.docs {
		if doc.OwnerID == ownerID {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeDocumentRepo) SetChunkGeneration(ctx context.Context, id string, generation int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	doc.ChunkGeneration = generation
	return nil
}

// ---- folders ----

type fakeFolderRepo struct {
	mu      sync.Mutex
	seq     int
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if folder.ID == "" {
		r.seq++
		folder.ID = fmt.Sprintf("folder-%d", r.seq)
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	copied := *folder
	return &copied, nil
}

func (r *fakeFolderRepo) Update(ctx context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	folder, ok := r.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, ownerID string, parentID *string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.OwnerID != ownerID {
			continue
		}
		if (parentID == nil) != (folder.ParentID == nil) {
			continue
		}
		if parentID != nil && *folder.ParentID != *parentID {
			continue
		}
		out = append(out, *folder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.OwnerID == ownerID {
			out = append(out, *folder)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeFolderRepo) GetPath(ctx context.Context, folderID *string, ownerID string) (string, error) {
	if folderID == nil {
		return "", nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var parts []string
	currentID := *folderID
	for currentID != "" {
		folder, ok := r.folders[currentID]
		if !ok {
			return "", &domain.NotFoundError{Message: "folder not found"}
		}
		parts = append([]string{folder.Name}, parts...)
		if folder.ParentID == nil {
			break
		}
		currentID = *folder.ParentID
	}
	path := ""
	for i, p := range parts {
		if i > 0 {
			path += "/"
		}
		path += p
	}
	return path, nil
}

// ---- versions ----

type fakeVersionRepo struct {
	mu       sync.Mutex
	seq      int
	versions map[string][]models.DocumentVersion // by document ID

	// failInsertAttempts makes the next n Inserts fail with ErrConflict,
	// simulating a lost version-number race
	failInsertAttempts int
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[string][]models.DocumentVersion)}
}

func (r *fakeVersionRepo) Insert(ctx context.Context, version *models.DocumentVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsertAttempts > 0 {
		r.failInsertAttempts--
		return &domain.ConflictError{Message: "duplicate version", ResourceType: "version"}
	}
	for _, v := range r.versions[version.DocumentID] {
		if v.Version == version.Version {
			return &domain.ConflictError{Message: "duplicate version", ResourceType: "version"}
		}
	}
	if version.ID == "" {
		r.seq++
		version.ID = fmt.Sprintf("ver-%d", r.seq)
	}
	r.versions[version.DocumentID] = append(r.versions[version.DocumentID], *version)
	return nil
}

func (r *fakeVersionRepo) MaxVersion(ctx context.Context, documentID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, v := range r.versions[documentID] {
		if v.Version > max {
			max = v.Version
		}
	}
	return max, nil
}

func (r *fakeVersionRepo) GetByVersion(ctx context.Context, documentID string, version int) (*models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.versions[documentID] {
		if v.Version == version {
			copied := v
			return &copied, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "version not found"}
}

func (r *fakeVersionRepo) ListByDocument(ctx context.Context, documentID string, from, to int) ([]models.DocumentVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentVersion
	for _, v := range r.versions[documentID] {
		if from > 0 && v.Version < from {
			continue
		}
		if to > 0 && v.Version > to {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (r *fakeVersionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.versions, documentID)
	return nil
}

// ---- chunks ----

type fakeChunkRepo struct {
	mu     sync.Mutex
	seq    int
	chunks []models.DocumentChunk
	docs   *fakeDocumentRepo // for the committed-generation join
}

func newFakeChunkRepo(docs *fakeDocumentRepo) *fakeChunkRepo {
	return &fakeChunkRepo{docs: docs}
}

func (r *fakeChunkRepo) InsertBatch(ctx context.Context, chunks []models.DocumentChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range chunks {
		if c.ID == "" {
			r.seq++
			c.ID = fmt.Sprintf("chunk-%d", r.seq)
		}
		r.chunks = append(r.chunks, c)
	}
	return nil
}

func (r *fakeChunkRepo) committedGeneration(documentID string) (int64, bool) {
	doc, err := r.docs.GetByID(context.Background(), documentID)
	if err != nil {
		return 0, false
	}
	return doc.ChunkGeneration, true
}

func (r *fakeChunkRepo) ListCommitted(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	return r.ListCommittedForDocuments(ctx, []string{documentID})
}

func (r *fakeChunkRepo) ListCommittedForDocuments(ctx context.Context, documentIDs []string) ([]models.DocumentChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]int64)
	for _, id := range documentIDs {
		if gen, ok := r.committedGeneration(id); ok {
			wanted[id] = gen
		}
	}
	var out []models.DocumentChunk
	for _, c := range r.chunks {
		if gen, ok := wanted[c.DocumentID]; ok && c.Generation == gen {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	return out, nil
}

func (r *fakeChunkRepo) DeleteOtherGenerations(ctx context.Context, documentID string, keep int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []models.DocumentChunk
	for _, c := range r.chunks {
		if c.DocumentID == documentID && c.Generation != keep {
			continue
		}
		kept = append(kept, c)
	}
	r.chunks = kept
	return nil
}

func (r *fakeChunkRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	return r.DeleteOtherGenerations(ctx, documentID, -1)
}

// allChunks returns every stored chunk regardless of generation
func (r *fakeChunkRepo) allChunks(documentID string) []models.DocumentChunk {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentChunk
	for _, c := range r.chunks {
		if c.DocumentID == documentID {
			out = append(out, c)
		}
	}
	return out
}

// ---- shares ----

type fakeShareRepo struct {
	mu     sync.Mutex
	seq    int
	shares map[string]*models.DocumentShare // key document|user
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{shares: make(map[string]*models.DocumentShare)}
}

func shareKey(documentID, userID string) string { return documentID + "|" + userID }

func (r *fakeShareRepo) Create(ctx context.Context, share *models.DocumentShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shareKey(share.DocumentID, share.UserID)
	if _, ok := r.shares[key]; ok {
		return &domain.ConflictError{Message: "share already exists", ResourceType: "share"}
	}
	if share.ID == "" {
		r.seq++
		share.ID = fmt.Sprintf("share-%d", r.seq)
	}
	copied := *share
	r.shares[key] = &copied
	return nil
}

func (r *fakeShareRepo) Update(ctx context.Context, share *models.DocumentShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shareKey(share.DocumentID, share.UserID)
	if _, ok := r.shares[key]; !ok {
		return &domain.NotFoundError{Message: "share not found"}
	}
	copied := *share
	r.shares[key] = &copied
	return nil
}

func (r *fakeShareRepo) Get(ctx context.Context, documentID, userID string) (*models.DocumentShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	share, ok := r.shares[shareKey(documentID, userID)]
	if !ok {
		return nil, &domain.NotFoundError{Message: "share not found"}
	}
	copied := *share
	return &copied, nil
}

func (r *fakeShareRepo) Delete(ctx context.Context, documentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := shareKey(documentID, userID)
	if _, ok := r.shares[key]; !ok {
		return &domain.NotFoundError{Message: "share not found"}
	}
	delete(r.shares, key)
	return nil
}

func (r *fakeShareRepo) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentShare
	for _, s := range r.shares {
		if s.DocumentID == documentID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShareRepo) ListForUser(ctx context.Context, userID string) ([]models.DocumentShare, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.DocumentShare
	for _, s := range r.shares {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeShareRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, s := range r.shares {
		if s.DocumentID == documentID {
			delete(r.shares, key)
		}
	}
	return nil
}

// ---- tags ----

type fakeTagRepo struct {
	mu    sync.Mutex
	seq   int
	tags  map[string]*models.Tag
	joins map[string]bool // document|tag
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string]*models.Tag), joins: make(map[string]bool)}
}

func (r *fakeTagRepo) Create(ctx context.Context, tag *models.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tags {
		if t.OwnerID == tag.OwnerID && t.Name == tag.Name {
			return &domain.ConflictError{Message: "tag already exists", ResourceType: "tag", ResourceID: t.ID}
		}
	}
	if tag.ID == "" {
		r.seq++
		tag.ID = fmt.Sprintf("tag-%d", r.seq)
	}
	copied := *tag
	r.tags[tag.ID] = &copied
	return nil
}

func (r *fakeTagRepo) GetByID(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return nil, &domain.NotFoundError{Message: "tag not found"}
	}
	copied := *tag
	return &copied, nil
}

func (r *fakeTagRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tag
	for _, t := range r.tags {
		if t.OwnerID == ownerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok || tag.OwnerID != ownerID {
		return &domain.NotFoundError{Message: "tag not found"}
	}
	delete(r.tags, id)
	for key := range r.joins {
		if len(key) > len(id) && key[len(key)-len(id):] == id {
			delete(r.joins, key)
		}
	}
	return nil
}

func (r *fakeTagRepo) Attach(ctx context.Context, documentID, tagID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := documentID + "|" + tagID
	if r.joins[key] {
		return &domain.ConflictError{Message: "tag already attached", ResourceType: "document_tag"}
	}
	r.joins[key] = true
	return nil
}

func (r *fakeTagRepo) Detach(ctx context.Context, documentID, tagID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := documentID + "|" + tagID
	if !r.joins[key] {
		return &domain.NotFoundError{Message: "tag not attached"}
	}
	delete(r.joins, key)
	return nil
}

func (r *fakeTagRepo) ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Tag
	for key := range r.joins {
		if len(key) > len(documentID) && key[:len(documentID)+1] == documentID+"|" {
			tagID := key[len(documentID)+1:]
			if tag, ok := r.tags[tagID]; ok {
				out = append(out, *tag)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTagRepo) DetachAllFromDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.joins {
		if len(key) > len(documentID) && key[:len(documentID)+1] == documentID+"|" {
			delete(r.joins, key)
		}
	}
	return nil
}

// ---- comments ----

type fakeCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == "" {
		r.seq++
		comment.ID = fmt.Sprintf("comment-%d", r.seq)
	}
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "comment not found"}
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) ListByDocument(ctx context.Context, documentID string) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.comments {
		if c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.comments {
		if c.DocumentID == documentID {
			delete(r.comments, id)
		}
	}
	return nil
}

// ---- extracted data ----

type fakeExtractedRepo struct {
	mu   sync.Mutex
	seq  int
	data map[string]*models.ExtractedDatum
}

func newFakeExtractedRepo() *fakeExtractedRepo {
	return &fakeExtractedRepo{data: make(map[string]*models.ExtractedDatum)}
}

func (r *fakeExtractedRepo) Create(ctx context.Context, datum *models.ExtractedDatum) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if datum.ID == "" {
		r.seq++
		datum.ID = fmt.Sprintf("datum-%d", r.seq)
	}
	copied := *datum
	r.data[datum.ID] = &copied
	return nil
}

func (r *fakeExtractedRepo) ListByDocument(ctx context.Context, documentID string) ([]models.ExtractedDatum, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ExtractedDatum
	for _, d := range r.data {
		if d.DocumentID == documentID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeExtractedRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.data {
		if d.DocumentID == documentID {
			delete(r.data, id)
		}
	}
	return nil
}

// ---- embedding ----

// fakeEmbedder returns deterministic vectors: a fixed unit vector per distinct
// text, optionally overridden per input. failing makes every call error.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	failing bool
	calls   int
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{vectors: make(map[string][]float32)}
}

func (e *fakeEmbedder) setVector(text string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[text] = vec
}

func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	if e.failing {
		return nil, fmt.Errorf("embedding request failed: %w", domain.ErrUpstreamUnavailable)
	}
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	// Arbitrary but deterministic default
	return []float32{1, 0, 0}, nil
}
