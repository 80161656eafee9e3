package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/capabilities"
	"docvault/internal/httputil"
)

// ModelsHandler exposes the embedding model registry
type ModelsHandler struct {
	registry *capabilities.Registry
	logger   *slog.Logger
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(registry *capabilities.Registry, logger *slog.Logger) *ModelsHandler {
	return &ModelsHandler{registry: registry, logger: logger}
}

// GetCapabilities lists the known embedding models and their chunking defaults
// GET /api/models/capabilities
func (h *ModelsHandler) GetCapabilities(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"default_model": h.registry.DefaultModel(),
		"models":        h.registry.ListModels(),
	})
}
