package services

import (
	"context"

	"docvault/internal/domain/models"
)

// AccessLevel is the resolved access a user holds over a document.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessRead
	AccessComment
	AccessWrite
	AccessOwner
)

// CanRead reports whether the level permits reading the document at all.
// A document at AccessNone must be invisible to listing, search and
// version-history operations.
func (l AccessLevel) CanRead() bool { return l >= AccessRead }

// CanComment reports whether the level permits commenting
func (l AccessLevel) CanComment() bool { return l >= AccessComment }

// CanWrite reports whether the level permits content edits
func (l AccessLevel) CanWrite() bool { return l >= AccessWrite }

// IsOwner reports full control (share, delete)
func (l AccessLevel) IsOwner() bool { return l == AccessOwner }

// LevelFromPermission maps a share grant onto an access level
func LevelFromPermission(p models.Permission) AccessLevel {
	switch p {
	case models.PermissionRead:
		return AccessRead
	case models.PermissionComment:
		return AccessComment
	case models.PermissionWrite:
		return AccessWrite
	}
	return AccessNone
}

// AccessService resolves effective permissions. Every document-scoped
// operation consults it before returning or mutating data.
type AccessService interface {
	// EffectivePermission resolves the access level a user holds over a
	// document: owner -> full control, share grant -> granted level,
	// otherwise none.
	EffectivePermission(ctx context.Context, doc *models.Document, userID string) AccessLevel

	// RequireRead returns ErrNotFound when the user cannot read the document.
	// Not-found rather than forbidden: an invisible document must not leak
	// its existence.
	RequireRead(ctx context.Context, doc *models.Document, userID string) error

	// RequireComment returns an error unless the user may comment
	RequireComment(ctx context.Context, doc *models.Document, userID string) error

	// RequireWrite returns an error unless the user may edit content
	RequireWrite(ctx context.Context, doc *models.Document, userID string) error

	// RequireOwner returns an error unless the user owns the document
	RequireOwner(ctx context.Context, doc *models.Document, userID string) error

	// ReadableDocumentIDs returns every document ID the user may read:
	// owned documents plus active share grants. Evaluated fresh on each
	// call - search must not rely on stale authorization.
	ReadableDocumentIDs(ctx context.Context, userID string) ([]string, error)
}
