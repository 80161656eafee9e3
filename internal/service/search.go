package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/embedding"
)

// searchService ranks committed chunks by cosine similarity to the query
type searchService struct {
	chunkRepo repositories.ChunkRepository
	access    services.AccessService
	embedder  embedding.Client
	logger    *slog.Logger
}

// NewSearchService creates a new search service
func NewSearchService(
	chunkRepo repositories.ChunkRepository,
	access services.AccessService,
	embedder embedding.Client,
	logger *slog.Logger,
) services.SearchService {
	return &searchService{
		chunkRepo: chunkRepo,
		access:    access,
		embedder:  embedder,
		logger:    logger,
	}
}

func (s *searchService) Search(ctx context.Context, userID, query string, topK int) ([]services.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", domain.ErrValidation)
	}
	if topK <= 0 {
		return []services.SearchResult{}, nil
	}
	if topK > config.MaxSearchTopK {
		topK = config.MaxSearchTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Authorization is evaluated per query, never cached: a grant revoked a
	// moment ago must not surface results
	readable, err := s.access.ReadableDocumentIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(readable) == 0 {
		return []services.SearchResult{}, nil
	}

	chunks, err := s.chunkRepo.ListCommittedForDocuments(ctx, readable)
	if err != nil {
		return nil, fmt.Errorf("listing candidate chunks: %w", err)
	}

	results := make([]services.SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := embedding.Decode(chunk.Embedding)
		if err != nil {
			s.logger.Error("corrupt chunk embedding, skipping",
				"document_id", chunk.DocumentID,
				"chunk_index", chunk.ChunkIndex,
				"error", err,
			)
			continue
		}
		results = append(results, services.SearchResult{
			DocumentID: chunk.DocumentID,
			ChunkIndex: chunk.ChunkIndex,
			Text:       chunk.Text,
			Score:      embedding.CosineSimilarity(queryVec, vec),
		})
	}

	// Descending score; ties resolve deterministically
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].DocumentID != results[j].DocumentID {
			return results[i].DocumentID < results[j].DocumentID
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
