package models

import (
	"time"
)

// ExtractedDatum is a structured fact pulled from a document by an external
// extraction step (dates, amounts, named entities). Not ordered, not
// unique-constrained beyond its id.
type ExtractedDatum struct {
	ID         string                 `json:"id" db:"id"`
	DocumentID string                 `json:"document_id" db:"document_id"`
	Type       string                 `json:"type" db:"type"`
	Content    string                 `json:"content" db:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
