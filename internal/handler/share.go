package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// ShareHandler handles share grant HTTP requests
type ShareHandler struct {
	shareService services.ShareService
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService services.ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{shareService: shareService, logger: logger}
}

// GrantShare creates a grant on a document
// POST /api/documents/{id}/shares
func (h *ShareHandler) GrantShare(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req services.GrantShareRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OwnerID = userID
	req.DocumentID = r.PathValue("id")

	share, err := h.shareService.GrantShare(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, share)
}

// UpdateShare changes the permission of an existing grant
// PATCH /api/documents/{id}/shares/{userID}
func (h *ShareHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Permission models.Permission `json:"permission"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	share, err := h.shareService.UpdateShare(r.Context(), ownerID, r.PathValue("id"), r.PathValue("userID"), req.Permission)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, share)
}

// RevokeShare removes a grant
// DELETE /api/documents/{id}/shares/{userID}
func (h *ShareHandler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.shareService.RevokeShare(r.Context(), ownerID, r.PathValue("id"), r.PathValue("userID")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListShares lists the grants on a document
// GET /api/documents/{id}/shares
func (h *ShareHandler) ListShares(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	shares, err := h.shareService.ListShares(r.Context(), ownerID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, shares)
}
