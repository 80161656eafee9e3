package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface.
// The table carries UNIQUE (document_id, version); a violation is the
// concurrent-commit race and surfaces as domain.ErrConflict so the ledger
// service can recompute max+1 and retry.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Insert appends an immutable version row
func (r *PostgresVersionRepository) Insert(ctx context.Context, version *models.DocumentVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, version, content, file_url, editor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Versions)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		version.ID,
		version.DocumentID,
		version.Version,
		version.Content,
		version.FileURL,
		version.EditorID,
		version.CreatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("version %d of document %s: %w", version.Version, version.DocumentID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", version.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert version: %w", err)
	}

	return nil
}

// MaxVersion returns the highest committed version number, 0 if none
func (r *PostgresVersionRepository) MaxVersion(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(version), 0)
		FROM %s
		WHERE document_id = $1
	`, r.tables.Versions)

	var max int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, documentID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max version: %w", err)
	}

	return max, nil
}

// GetByVersion retrieves one ledger entry
func (r *PostgresVersionRepository) GetByVersion(ctx context.Context, documentID string, version int) (*models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version, content, file_url, editor_id, created_at
		FROM %s
		WHERE document_id = $1 AND version = $2
	`, r.tables.Versions)

	var v models.DocumentVersion
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, documentID, version).Scan(
		&v.ID,
		&v.DocumentID,
		&v.Version,
		&v.Content,
		&v.FileURL,
		&v.EditorID,
		&v.CreatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("version %d of document %s: %w", version, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &v, nil
}

// ListByDocument returns versions ordered ascending. from/to bound the
// version numbers inclusively; zero means unbounded on that side.
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string, from, to int) ([]models.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, version, content, file_url, editor_id, created_at
		FROM %s
		WHERE document_id = $1
		  AND ($2 = 0 OR version >= $2)
		  AND ($3 = 0 OR version <= $3)
		ORDER BY version ASC
	`, r.tables.Versions)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, documentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.DocumentVersion
	for rows.Next() {
		var v models.DocumentVersion
		err := rows.Scan(
			&v.ID,
			&v.DocumentID,
			&v.Version,
			&v.Content,
			&v.FileURL,
			&v.EditorID,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// DeleteByDocument removes all ledger rows for a document. Used only by the
// document hard-delete cascade; nothing else may delete version rows.
func (r *PostgresVersionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.Versions)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	return nil
}
