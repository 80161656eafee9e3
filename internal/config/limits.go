package config

// Resource name limits
const (
	MaxFolderNameLength   = 255
	MaxDocumentNameLength = 255
	MaxTagNameLength      = 64
	MaxCommentLength      = 10000
)

// Version commit retry bound. A conflict means another editor committed the
// same next version number first; the ledger recomputes max+1 and resubmits.
const MaxVersionCommitRetries = 3

// MaxSearchTopK caps a single search request
const MaxSearchTopK = 200

// Chunking fallbacks used when the model registry carries no values
const (
	DefaultChunkWindow  = 800
	DefaultChunkOverlap = 160
)

// MaxFolderDepth bounds the ancestor walk on folder moves. A chain longer
// than this is treated as corrupt rather than walked forever.
const MaxFolderDepth = 128
