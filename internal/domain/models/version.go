package models

import (
	"time"
)

// DocumentVersion is one immutable entry of a document's version ledger.
// Rows are append-only: never updated, never deleted while the document lives.
// The live Document.Content is conceptually "current"; the first committed
// snapshot is version 1.
type DocumentVersion struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Version    int       `json:"version" db:"version"`
	Content    string    `json:"content" db:"content"`
	FileURL    *string   `json:"file_url,omitempty" db:"file_url"`
	EditorID   string    `json:"editor_id" db:"editor_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
