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

// PostgresExtractedDatumRepository implements the ExtractedDatumRepository
// interface. Metadata is a JSONB column; pgx encodes the map directly.
type PostgresExtractedDatumRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewExtractedDatumRepository creates a new extracted datum repository
func NewExtractedDatumRepository(config *RepositoryConfig) repositories.ExtractedDatumRepository {
	return &PostgresExtractedDatumRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *PostgresExtractedDatumRepository) Create(ctx context.Context, datum *models.ExtractedDatum) error {
	if datum.ID == "" {
		datum.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, type, content, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.ExtractedData)

	_, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		datum.ID,
		datum.DocumentID,
		datum.Type,
		datum.Content,
		datum.Metadata,
		datum.CreatedAt,
	)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", datum.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create extracted datum: %w", err)
	}

	return nil
}

func (r *PostgresExtractedDatumRepository) ListByDocument(ctx context.Context, documentID string) ([]models.ExtractedDatum, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, type, content, metadata, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC
	`, r.tables.ExtractedData)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list extracted data: %w", err)
	}
	defer rows.Close()

	var data []models.ExtractedDatum
	for rows.Next() {
		var datum models.ExtractedDatum
		err := rows.Scan(
			&datum.ID,
			&datum.DocumentID,
			&datum.Type,
			&datum.Content,
			&datum.Metadata,
			&datum.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan extracted datum: %w", err)
		}
		data = append(data, datum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate extracted data: %w", err)
	}

	return data, nil
}

func (r *PostgresExtractedDatumRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.ExtractedData)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete extracted data: %w", err)
	}
	return nil
}
