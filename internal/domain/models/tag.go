package models

import (
	"time"
)

// Tag is a user-owned label. Unique per (name, owner); tags are not
// cross-user shareable.
type Tag struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	Name      string    `json:"name" db:"name"`
	Color     string    `json:"color" db:"color"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DocumentTag is the join row between a document and a tag.
// Unique per (document, tag).
type DocumentTag struct {
	DocumentID string    `json:"document_id" db:"document_id"`
	TagID      string    `json:"tag_id" db:"tag_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
