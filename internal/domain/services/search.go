package services

import (
	"context"
)

// SearchService is semantic retrieval over committed chunk embeddings.
type SearchService interface {
	// Search embeds the query and ranks every committed chunk of documents
	// the user may read by cosine similarity. Results are sorted by
	// descending score, ties broken by (document ID, chunk index) ascending.
	// topK <= 0 returns an empty list.
	Search(ctx context.Context, userID, query string, topK int) ([]SearchResult, error)
}

// SearchResult is one ranked chunk
type SearchResult struct {
	DocumentID string  `json:"document_id"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}
