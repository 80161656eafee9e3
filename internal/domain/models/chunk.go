package models

import (
	"time"
)

// DocumentChunk is a contiguous span of a document's text together with its
// embedding vector. Chunk indices for a committed generation form a dense
// 0-based sequence. The embedding is an opaque byte buffer holding packed
// little-endian IEEE-754 float32 values; only the retrieval path decodes it.
type DocumentChunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Generation int64     `json:"-" db:"generation"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	Text       string    `json:"text" db:"text"`
	Embedding  []byte    `json:"-" db:"embedding"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
