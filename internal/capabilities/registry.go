package capabilities

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry manages embedding model capabilities loaded from the embedded
// YAML config. Lookups are cheap and safe for concurrent use.
type Registry struct {
	defaultModel string
	models       map[string]ModelCapabilities
	mu           sync.RWMutex
}

// NewRegistry creates a new capability registry and loads embedded YAML files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		models: make(map[string]ModelCapabilities),
	}

	if err := r.loadFile("embedding"); err != nil {
		return nil, fmt.Errorf("failed to load embedding capabilities: %w", err)
	}

	return r, nil
}

// loadFile loads one embedded capability YAML file
func (r *Registry) loadFile(name string) error {
	filename := fmt.Sprintf("config/%s.yaml", name)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var file ModelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultModel = file.DefaultModel
	for id, caps := range file.Models {
		caps.ID = id
		r.models[id] = caps
	}

	return nil
}

// DefaultModel returns the configured default embedding model ID
func (r *Registry) DefaultModel() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultModel
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.models[model]
	if !ok {
		return nil, fmt.Errorf("unknown embedding model: %s", model)
	}
	return &caps, nil
}

// ListModels returns all registered embedding model IDs
func (r *Registry) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	return ids
}
