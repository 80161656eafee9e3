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

// PostgresShareRepository implements the ShareRepository interface
type PostgresShareRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewShareRepository creates a new share repository
func NewShareRepository(config *RepositoryConfig) repositories.ShareRepository {
	return &PostgresShareRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create persists a new share grant
func (r *PostgresShareRepository) Create(ctx context.Context, share *models.DocumentShare) error {
	if share.ID == "" {
		share.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, user_id, permission, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Shares)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		share.ID,
		share.DocumentID,
		share.UserID,
		share.Permission,
		share.CreatedAt,
		share.UpdatedAt,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("share for user %s on document %s: %w", share.UserID, share.DocumentID, domain.ErrConflict)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", share.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create share: %w", err)
	}

	return nil
}

// Update changes the permission of an existing share
func (r *PostgresShareRepository) Update(ctx context.Context, share *models.DocumentShare) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET permission = $1, updated_at = $2
		WHERE document_id = $3 AND user_id = $4
	`, r.tables.Shares)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		share.Permission,
		share.UpdatedAt,
		share.DocumentID,
		share.UserID,
	)
	if err != nil {
		return fmt.Errorf("update share: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("share for user %s on document %s: %w", share.UserID, share.DocumentID, domain.ErrNotFound)
	}

	return nil
}

// Get retrieves the share for a (document, user) pair
func (r *PostgresShareRepository) Get(ctx context.Context, documentID, userID string) (*models.DocumentShare, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, permission, created_at, updated_at
		FROM %s
		WHERE document_id = $1 AND user_id = $2
	`, r.tables.Shares)

	var share models.DocumentShare
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, documentID, userID).Scan(
		&share.ID,
		&share.DocumentID,
		&share.UserID,
		&share.Permission,
		&share.CreatedAt,
		&share.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("share for user %s on document %s: %w", userID, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get share: %w", err)
	}

	return &share, nil
}

// Delete revokes a share
func (r *PostgresShareRepository) Delete(ctx context.Context, documentID, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND user_id = $2
	`, r.tables.Shares)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, userID)
	if err != nil {
		return fmt.Errorf("delete share: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("share for user %s on document %s: %w", userID, documentID, domain.ErrNotFound)
	}

	return nil
}

// ListByDocument lists all grants on one document
func (r *PostgresShareRepository) ListByDocument(ctx context.Context, documentID string) ([]models.DocumentShare, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, permission, created_at, updated_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC
	`, r.tables.Shares)

	return r.queryShares(ctx, query, documentID)
}

// ListForUser lists every share granted to a user
func (r *PostgresShareRepository) ListForUser(ctx context.Context, userID string) ([]models.DocumentShare, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, permission, created_at, updated_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, r.tables.Shares)

	return r.queryShares(ctx, query, userID)
}

// DeleteByDocument revokes all grants on a document
func (r *PostgresShareRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.Shares)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete shares: %w", err)
	}
	return nil
}

func (r *PostgresShareRepository) queryShares(ctx context.Context, query string, args ...interface{}) ([]models.DocumentShare, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	defer rows.Close()

	var shares []models.DocumentShare
	for rows.Next() {
		var share models.DocumentShare
		err := rows.Scan(
			&share.ID,
			&share.DocumentID,
			&share.UserID,
			&share.Permission,
			&share.CreatedAt,
			&share.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan share: %w", err)
		}
		shares = append(shares, share)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shares: %w", err)
	}

	return shares, nil
}
