package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

const defaultSearchTopK = 10

// SearchHandler handles semantic retrieval HTTP requests
type SearchHandler struct {
	searchService services.SearchService
	logger        *slog.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService services.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{searchService: searchService, logger: logger}
}

// Search ranks readable chunks against the query
// GET /api/search?q=...&top_k=10
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	topK := defaultSearchTopK
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "top_k must be a number")
			return
		}
		topK = n
	}

	results, err := h.searchService.Search(r.Context(), userID, query, topK)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}
