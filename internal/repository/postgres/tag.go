package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface.
// Uniqueness of (name, owner) and (document, tag) lives in table constraints;
// violations surface as domain.ErrConflict.
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create persists a tag
func (r *PostgresTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, r.tables.Tags)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		tag.ID,
		tag.OwnerID,
		tag.Name,
		tag.Color,
		tag.CreatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("tag '%s': %w", tag.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag scoped to its owner
func (r *PostgresTagRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, color, created_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Tags)

	var tag models.Tag
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&tag.ID,
		&tag.OwnerID,
		&tag.Name,
		&tag.Color,
		&tag.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

// ListByOwner lists all tags of an owner ordered by name
func (r *PostgresTagRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, name, color, created_at
		FROM %s
		WHERE owner_id = $1
		ORDER BY name ASC
	`, r.tables.Tags)

	return r.queryTags(ctx, query, ownerID)
}

// Delete removes a tag and its join rows
func (r *PostgresTagRepository) Delete(ctx context.Context, id, ownerID string) error {
	joinQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE tag_id = $1
	`, r.tables.DocumentTags)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, joinQuery, id); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Tags)

	result, err := executor.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Attach creates a (document, tag) join row
func (r *PostgresTagRepository) Attach(ctx context.Context, documentID, tagID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, tag_id, created_at)
		VALUES ($1, $2, $3)
	`, r.tables.DocumentTags)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, tagID, time.Now())
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %s already tagged %s: %w", documentID, tagID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document or tag: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("attach tag: %w", err)
	}

	return nil
}

// Detach removes a (document, tag) join row
func (r *PostgresTagRepository) Detach(ctx context.Context, documentID, tagID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND tag_id = $2
	`, r.tables.DocumentTags)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, tagID)
	if err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tag %s on document %s: %w", tagID, documentID, domain.ErrNotFound)
	}

	return nil
}

// ListByDocument lists the tags attached to a document
func (r *PostgresTagRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.id, t.owner_id, t.name, t.color, t.created_at
		FROM %s t
		JOIN %s dt ON dt.tag_id = t.id
		WHERE dt.document_id = $1
		ORDER BY t.name ASC
	`, r.tables.Tags, r.tables.DocumentTags)

	return r.queryTags(ctx, query, documentID)
}

// DetachAllFromDocument drops every join row of a document
func (r *PostgresTagRepository) DetachAllFromDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.DocumentTags)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("detach tags: %w", err)
	}
	return nil
}

func (r *PostgresTagRepository) queryTags(ctx context.Context, query string, args ...interface{}) ([]models.Tag, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		err := rows.Scan(
			&tag.ID,
			&tag.OwnerID,
			&tag.Name,
			&tag.Color,
			&tag.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}
