package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// VersionHandler handles version ledger HTTP requests
type VersionHandler struct {
	versionService services.VersionService
	logger         *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versionService services.VersionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{versionService: versionService, logger: logger}
}

// CommitVersion snapshots the document's live state as a new version
// POST /api/documents/{id}/versions
func (h *VersionHandler) CommitVersion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	version, err := h.versionService.CommitCurrent(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// ListVersions lists ledger entries, optionally bounded
// GET /api/documents/{id}/versions?from=2&to=5
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	from, ok := parseVersionBound(w, r.URL.Query().Get("from"))
	if !ok {
		return
	}
	to, ok := parseVersionBound(w, r.URL.Query().Get("to"))
	if !ok {
		return
	}

	versions, err := h.versionService.ListVersions(r.Context(), userID, r.PathValue("id"), from, to)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, versions)
}

// RestoreVersion makes a historical version the live content
// POST /api/documents/{id}/versions/{version}/restore
func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	versionNum, err := strconv.Atoi(r.PathValue("version"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "version must be a number")
		return
	}

	version, err := h.versionService.RestoreVersion(r.Context(), userID, r.PathValue("id"), versionNum)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// parseVersionBound parses an optional version query parameter, 0 when absent
func parseVersionBound(w http.ResponseWriter, raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		httputil.RespondError(w, http.StatusBadRequest, "version bounds must be non-negative numbers")
		return 0, false
	}
	return n, true
}
