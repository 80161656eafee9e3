package config

import (
	"os"
	"strconv"
	"time"

	"docvault/internal/capabilities"
)

// EmbeddingConfig configures the external embedding service client
type EmbeddingConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	Dimensions int // filled from the model registry when unset
	Timeout    time.Duration
	MaxRetries int
}

// ChunkingConfig is the chunking policy. Window and overlap are counted in
// runes; they are configuration, not a structural invariant - any values keep
// the dense-index guarantee.
type ChunkingConfig struct {
	Window  int
	Overlap int
}

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	TablePrefix string

	Embedding EmbeddingConfig
	Chunking  ChunkingConfig

	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		Embedding: EmbeddingConfig{
			BaseURL:    getEnv("EMBEDDING_BASE_URL", "https://api.openai.com/v1"),
			APIKey:     getEnv("EMBEDDING_API_KEY", ""),
			Model:      getEnv("EMBEDDING_MODEL", ""),
			Dimensions: getEnvInt("EMBEDDING_DIMENSIONS", 0),
			Timeout:    time.Duration(getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 15)) * time.Second,
			MaxRetries: getEnvInt("EMBEDDING_MAX_RETRIES", 3),
		},
		Chunking: ChunkingConfig{
			Window:  getEnvInt("CHUNK_WINDOW", 0),
			Overlap: getEnvInt("CHUNK_OVERLAP", 0),
		},
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// ApplyModelDefaults fills unset embedding/chunking settings from the model
// registry. Explicit env values always win.
func (c *Config) ApplyModelDefaults(registry *capabilities.Registry) error {
	if c.Embedding.Model == "" {
		c.Embedding.Model = registry.DefaultModel()
	}

	caps, err := registry.GetModelCapabilities(c.Embedding.Model)
	if err != nil {
		return err
	}

	if c.Embedding.Dimensions == 0 {
		c.Embedding.Dimensions = caps.Dimensions
	}
	if c.Chunking.Window == 0 {
		c.Chunking.Window = caps.ChunkWindow
	}
	if c.Chunking.Overlap == 0 {
		c.Chunking.Overlap = caps.ChunkOverlap
	}

	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
