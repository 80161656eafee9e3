package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// ExtractionHandler handles extracted data HTTP requests
type ExtractionHandler struct {
	extractionService services.ExtractionService
	logger            *slog.Logger
}

// NewExtractionHandler creates a new extraction handler
func NewExtractionHandler(extractionService services.ExtractionService, logger *slog.Logger) *ExtractionHandler {
	return &ExtractionHandler{extractionService: extractionService, logger: logger}
}

// RecordDatum stores one extracted fact against a document
// POST /api/documents/{id}/extracted-data
func (h *ExtractionHandler) RecordDatum(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.RecordDatumRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DocumentID = r.PathValue("id")

	datum, err := h.extractionService.RecordDatum(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, datum)
}

// ListData lists a document's extracted facts
// GET /api/documents/{id}/extracted-data
func (h *ExtractionHandler) ListData(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	data, err := h.extractionService.ListData(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, data)
}
