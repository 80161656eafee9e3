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

// PostgresChunkRepository implements the ChunkRepository interface.
// Chunks are generation-tagged; the committed generation is the pointer on
// the documents row, so "committed" reads join against it and a half-written
// new generation is invisible until the pointer flips.
type PostgresChunkRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChunkRepository creates a new chunk repository
func NewChunkRepository(config *RepositoryConfig) repositories.ChunkRepository {
	return &PostgresChunkRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// InsertBatch persists a chunk set for one (document, generation)
func (r *PostgresChunkRepository) InsertBatch(ctx context.Context, chunks []models.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, document_id, generation, chunk_index, text, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.Chunks)

	executor := GetExecutor(ctx, r.pool)
	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = uuid.NewString()
		}
		_, err := executor.Exec(ctx, query,
			chunks[i].ID,
			chunks[i].DocumentID,
			chunks[i].Generation,
			chunks[i].ChunkIndex,
			chunks[i].Text,
			chunks[i].Embedding,
			chunks[i].CreatedAt,
		)
		if err != nil {
			if isPgDuplicateError(err) {
				return fmt.Errorf("chunk %d of document %s: %w", chunks[i].ChunkIndex, chunks[i].DocumentID, domain.ErrConflict)
			}
			if isPgForeignKeyError(err) {
				return fmt.Errorf("document %s: %w", chunks[i].DocumentID, domain.ErrNotFound)
			}
			return fmt.Errorf("insert chunk: %w", err)
		}
	}

	return nil
}

// ListCommitted returns the committed-generation chunks for a document
func (r *PostgresChunkRepository) ListCommitted(ctx context.Context, documentID string) ([]models.DocumentChunk, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.document_id, c.generation, c.chunk_index, c.text, c.embedding, c.created_at
		FROM %s c
		JOIN %s d ON d.id = c.document_id AND d.chunk_generation = c.generation
		WHERE c.document_id = $1
		ORDER BY c.chunk_index ASC
	`, r.tables.Chunks, r.tables.Documents)

	return r.queryChunks(ctx, query, documentID)
}

// ListCommittedForDocuments returns committed chunks across many documents,
// ordered by (document_id, chunk_index) for deterministic downstream ranking.
func (r *PostgresChunkRepository) ListCommittedForDocuments(ctx context.Context, documentIDs []string) ([]models.DocumentChunk, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.document_id, c.generation, c.chunk_index, c.text, c.embedding, c.created_at
		FROM %s c
		JOIN %s d ON d.id = c.document_id AND d.chunk_generation = c.generation
		WHERE c.document_id = ANY($1)
		ORDER BY c.document_id ASC, c.chunk_index ASC
	`, r.tables.Chunks, r.tables.Documents)

	return r.queryChunks(ctx, query, documentIDs)
}

// DeleteOtherGenerations drops superseded chunk generations of a document
func (r *PostgresChunkRepository) DeleteOtherGenerations(ctx context.Context, documentID string, keep int64) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1 AND generation <> $2
	`, r.tables.Chunks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID, keep); err != nil {
		return fmt.Errorf("delete superseded chunks: %w", err)
	}
	return nil
}

// DeleteByDocument removes every chunk of a document
func (r *PostgresChunkRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE document_id = $1
	`, r.tables.Chunks)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

func (r *PostgresChunkRepository) queryChunks(ctx context.Context, query string, args ...interface{}) ([]models.DocumentChunk, error) {
	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.DocumentChunk
	for rows.Next() {
		var c models.DocumentChunk
		err := rows.Scan(
			&c.ID,
			&c.DocumentID,
			&c.Generation,
			&c.ChunkIndex,
			&c.Text,
			&c.Embedding,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	return chunks, nil
}
