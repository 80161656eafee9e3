package capabilities

// ModelCapabilities holds metadata for one embedding model. Chunking defaults
// live next to the model because the usable window depends on the model's
// input limit.
type ModelCapabilities struct {
	// Model identifier (set during YAML unmarshaling)
	ID string `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`
	Description string `yaml:"description" json:"description"`

	// Dimensions is the fixed length of vectors this model produces.
	// Every stored embedding for a document indexed under this model must
	// decode to exactly this many float32 values.
	Dimensions int `yaml:"dimensions" json:"dimensions"`

	// MaxInputRunes bounds the text length of a single embed call
	MaxInputRunes int `yaml:"max_input_runes" json:"max_input_runes"`

	// Chunking defaults for documents indexed under this model
	ChunkWindow  int `yaml:"chunk_window" json:"chunk_window"`
	ChunkOverlap int `yaml:"chunk_overlap" json:"chunk_overlap"`
}

// ModelFile is the on-disk YAML shape: a map of model ID to capabilities
// plus the default model ID.
type ModelFile struct {
	DefaultModel string                       `yaml:"default_model"`
	Models       map[string]ModelCapabilities `yaml:"models"`
}
