package models

import (
	"time"
)

type Folder struct {
	ID        string    `json:"id" db:"id"`
	OwnerID   string    `json:"owner_id" db:"owner_id"`
	ParentID  *string   `json:"parent_id" db:"parent_id"` // NULL = root level
	Name      string    `json:"name" db:"name"`
	Path      string    `json:"path,omitempty"` // Computed display path, not stored in DB
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DeleteStrategy controls what happens to a folder's contents on delete.
type DeleteStrategy string

const (
	// DeleteCascade removes the folder, its descendant folders and their documents.
	DeleteCascade DeleteStrategy = "cascade"
	// DeleteReparent detaches children to the deleted folder's own parent
	// (or root) before removing the folder itself.
	DeleteReparent DeleteStrategy = "reparent"
)

// Valid reports whether s is a known delete strategy.
func (s DeleteStrategy) Valid() bool {
	return s == DeleteCascade || s == DeleteReparent
}
