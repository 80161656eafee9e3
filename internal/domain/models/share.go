package models

import (
	"time"
)

// Permission is the access level a share grants. Write implies comment and
// read; comment implies read.
type Permission string

const (
	PermissionRead    Permission = "read"
	PermissionComment Permission = "comment"
	PermissionWrite   Permission = "write"
)

// Valid reports whether p is one of the closed permission set.
func (p Permission) Valid() bool {
	switch p {
	case PermissionRead, PermissionComment, PermissionWrite:
		return true
	}
	return false
}

// rank orders permissions by strength for Allows comparisons.
func (p Permission) rank() int {
	switch p {
	case PermissionRead:
		return 1
	case PermissionComment:
		return 2
	case PermissionWrite:
		return 3
	}
	return 0
}

// Allows reports whether holding p satisfies a requirement of q.
func (p Permission) Allows(q Permission) bool {
	return p.rank() >= q.rank()
}

// DocumentShare grants a user a permission on a single document.
// Unique per (document, user).
type DocumentShare struct {
	ID         string     `json:"id" db:"id"`
	DocumentID string     `json:"document_id" db:"document_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Permission Permission `json:"permission" db:"permission"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}
