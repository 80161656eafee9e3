package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

// ==== UNIT TESTS for the chunk indexer ====

type indexerFixture struct {
	docRepo   *fakeDocumentRepo
	chunkRepo *fakeChunkRepo
	embedder  *fakeEmbedder
	service   services.IndexerService
}

func newIndexerFixture(window, overlap int) *indexerFixture {
	docRepo := newFakeDocumentRepo()
	chunkRepo := newFakeChunkRepo(docRepo)
	embedder := newFakeEmbedder()
	return &indexerFixture{
		docRepo:   docRepo,
		chunkRepo: chunkRepo,
		embedder:  embedder,
		service:   NewIndexerService(docRepo, chunkRepo, fakeTx(), embedder, NewChunker(window, overlap), testLogger()),
	}
}

func TestReindexBuildsCommittedSet(t *testing.T) {
	f := newIndexerFixture(50, 0)
	ctx := context.Background()

	doc := &models.Document{OwnerID: "alice", Name: "doc", Content: strings.Repeat("x", 120)}
	if err := f.docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("creating doc: %v", err)
	}

	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	chunks, err := f.chunkRepo.ListCommitted(ctx, doc.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d committed chunks, want 3", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk indices not dense: position %d has index %d", i, c.ChunkIndex)
		}
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d has no embedding", i)
		}
	}

	reloaded, err := f.docRepo.GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("reloading doc: %v", err)
	}
	if reloaded.ChunkGeneration == 0 {
		t.Error("committed generation pointer not flipped")
	}
}

func TestReindexReplacesPriorGeneration(t *testing.T) {
	f := newIndexerFixture(50, 0)
	ctx := context.Background()

	doc := &models.Document{OwnerID: "alice", Name: "doc", Content: "first body of text"}
	if err := f.docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("creating doc: %v", err)
	}
	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("first reindex: %v", err)
	}
	firstGen, _ := f.chunkRepo.committedGeneration(doc.ID)

	doc.Content = "a completely different body"
	if err := f.docRepo.Update(ctx, doc); err != nil {
		t.Fatalf("updating doc: %v", err)
	}
	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("second reindex: %v", err)
	}

	secondGen, _ := f.chunkRepo.committedGeneration(doc.ID)
	if secondGen == firstGen {
		t.Error("generation pointer did not advance")
	}

	// Superseded rows are gone; only the new generation remains
	all := f.chunkRepo.allChunks(doc.ID)
	for _, c := range all {
		if c.Generation != secondGen {
			t.Errorf("stale chunk from generation %d survived", c.Generation)
		}
	}
	chunks, err := f.chunkRepo.ListCommitted(ctx, doc.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(chunks) != 1 || chunks[0].Text != "a completely different body" {
		t.Errorf("committed set not rebuilt from new content: %+v", chunks)
	}
}

func TestReindexEmptyContentClearsChunks(t *testing.T) {
	f := newIndexerFixture(50, 0)
	ctx := context.Background()

	doc := &models.Document{OwnerID: "alice", Name: "doc", Content: "some text"}
	if err := f.docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("creating doc: %v", err)
	}
	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("first reindex: %v", err)
	}

	doc.Content = ""
	if err := f.docRepo.Update(ctx, doc); err != nil {
		t.Fatalf("updating doc: %v", err)
	}
	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("reindex of empty content: %v", err)
	}

	chunks, err := f.chunkRepo.ListCommitted(ctx, doc.ID)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("empty document still has %d committed chunks", len(chunks))
	}
	if stale := f.chunkRepo.allChunks(doc.ID); len(stale) != 0 {
		t.Errorf("%d stale chunks survived", len(stale))
	}
}

func TestReindexUpstreamFailureKeepsPriorSet(t *testing.T) {
	f := newIndexerFixture(50, 0)
	ctx := context.Background()

	doc := &models.Document{OwnerID: "alice", Name: "doc", Content: "original text"}
	if err := f.docRepo.Create(ctx, doc); err != nil {
		t.Fatalf("creating doc: %v", err)
	}
	if err := f.service.Reindex(ctx, doc.ID); err != nil {
		t.Fatalf("first reindex: %v", err)
	}
	priorGen, _ := f.chunkRepo.committedGeneration(doc.ID)

	// Embedding dies before the next reindex; the prior committed set must
	// survive untouched
	doc.Content = "new text that never gets indexed"
	if err := f.docRepo.Update(ctx, doc); err != nil {
		t.Fatalf("updating doc: %v", err)
	}
	f.embedder.failing = true

	err := f.service.Reindex(ctx, doc.ID)
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("got %v, want upstream unavailable", err)
	}

	gen, _ := f.chunkRepo.committedGeneration(doc.ID)
	if gen != priorGen {
		t.Error("failed reindex moved the generation pointer")
	}
	chunks, listErr := f.chunkRepo.ListCommitted(ctx, doc.ID)
	if listErr != nil {
		t.Fatalf("listing: %v", listErr)
	}
	if len(chunks) != 1 || chunks[0].Text != "original text" {
		t.Errorf("prior committed set damaged: %+v", chunks)
	}
}

func TestReindexMissingDocument(t *testing.T) {
	f := newIndexerFixture(50, 0)
	err := f.service.Reindex(context.Background(), "no-such-doc")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestScheduleReindexNeverBlocks(t *testing.T) {
	f := newIndexerFixture(50, 0)

	// Fill far past the queue capacity; the call must return regardless
	for i := 0; i < indexQueueSize+10; i++ {
		f.service.ScheduleReindex("doc-1")
	}
}
