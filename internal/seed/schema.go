package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/repository/postgres"
)

// RunSchema creates all tables and indexes if they do not exist
func RunSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, prefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL,
			parent_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Documents + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL,
			folder_id UUID REFERENCES ` + tables.Folders + `(id) ON DELETE SET NULL,
			name TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			file_url TEXT,
			word_count INTEGER DEFAULT 0,
			chunk_generation BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Versions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			version INTEGER NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			file_url TEXT,
			editor_id UUID NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(document_id, version)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Chunks + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			generation BIGINT NOT NULL,
			chunk_index INTEGER NOT NULL,
			text TEXT NOT NULL,
			embedding BYTEA NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(document_id, generation, chunk_index)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Shares + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			permission TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(document_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Tags + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL,
			name TEXT NOT NULL,
			color TEXT NOT NULL DEFAULT '#808080',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(owner_id, name)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.DocumentTags + ` (
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			tag_id UUID NOT NULL REFERENCES ` + tables.Tags + `(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY(document_id, tag_id)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.Comments + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			user_id UUID NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tables.ExtractedData + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			document_id UUID NOT NULL REFERENCES ` + tables.Documents + `(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `folders_owner_parent ON ` + tables.Folders + `(owner_id, parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `documents_owner_folder ON ` + tables.Documents + `(owner_id, folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `chunks_doc_gen ON ` + tables.Chunks + `(document_id, generation)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `versions_doc ON ` + tables.Versions + `(document_id, version)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `shares_user ON ` + tables.Shares + `(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + prefix + `comments_doc ON ` + tables.Comments + `(document_id, created_at)`,
	}
	for _, stmt := range indexes {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("creating index: %w", err)
		}
	}
	return nil
}

// DropTables drops every table, children first
func DropTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	order := []string{
		tables.ExtractedData,
		tables.Comments,
		tables.DocumentTags,
		tables.Tags,
		tables.Shares,
		tables.Chunks,
		tables.Versions,
		tables.Documents,
		tables.Folders,
	}
	for _, table := range order {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

// ClearUserData removes all rows owned by one user. Child tables cascade from
// documents and folders.
func ClearUserData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, ownerID string) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Documents+" WHERE owner_id = $1", ownerID); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE owner_id = $1", ownerID); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Tags+" WHERE owner_id = $1", ownerID); err != nil {
		return err
	}
	return nil
}
