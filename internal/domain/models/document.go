package models

import (
	"time"
)

type Document struct {
	ID       string  `json:"id" db:"id"`
	OwnerID  string  `json:"owner_id" db:"owner_id"`
	FolderID *string `json:"folder_id" db:"folder_id"` // NULL = root level
	Name     string  `json:"name" db:"name"`
	Path     string  `json:"path,omitempty"` // Computed display path, not stored in DB

	// Exactly one of Content / FileURL is the canonical body. Inline markdown
	// content is what gets chunked; file-backed documents are chunked from the
	// text extracted upstream.
	Content string  `json:"content" db:"content"`
	FileURL *string `json:"file_url,omitempty" db:"file_url"`

	WordCount int `json:"word_count" db:"word_count"`

	// ChunkGeneration is the committed chunk set pointer. Readers only ever see
	// chunks whose generation matches this value.
	ChunkGeneration int64 `json:"-" db:"chunk_generation"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
