package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func NewDB(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() {
	if d != nil && d.Pool != nil {
		d.Pool.Close()
	}
}

// EnsureSchema creates the three logical tables and the vector index.
// embedDim fixes the stored vector dimension; all persisted embeddings are
// padded or truncated to it before insert.
func (d *DB) EnsureSchema(ctx context.Context, embedDim int) error {
	if embedDim <= 0 {
		embedDim = 1536
	}
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS documents (
			id BIGSERIAL PRIMARY KEY,
			filename TEXT NOT NULL,
			original_filename TEXT NOT NULL,
			file_path TEXT NOT NULL DEFAULT '',
			file_size BIGINT NOT NULL DEFAULT 0,
			mime_type TEXT NOT NULL DEFAULT '',
			upload_status TEXT NOT NULL DEFAULT 'uploading',
			processing_status JSONB NOT NULL DEFAULT '{}'::jsonb,
			chunk_count INT NOT NULL DEFAULT 0,
			total_chunks INT NOT NULL DEFAULT 0,
			extracted_text TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS knowledge_entries (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			keywords TEXT[] NOT NULL DEFAULT '{}',
			categories TEXT[] NOT NULL DEFAULT '{}',
			source TEXT NOT NULL DEFAULT '',
			author TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			chunk_count INT NOT NULL DEFAULT 0,
			processing_status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id BIGSERIAL PRIMARY KEY,
			document_id BIGINT REFERENCES documents(id) ON DELETE CASCADE,
			knowledge_entry_id BIGINT REFERENCES knowledge_entries(id) ON DELETE CASCADE,
			chunk_index INT NOT NULL,
			content TEXT NOT NULL,
			content_cleaned TEXT NOT NULL DEFAULT '',
			embedding vector(%d),
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			word_count INT NOT NULL DEFAULT 0,
			char_count INT NOT NULL DEFAULT 0,
			processing_status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK ((document_id IS NULL) <> (knowledge_entry_id IS NULL))
		)`, embedDim),
		`CREATE INDEX IF NOT EXISTS idx_chunks_embedding ON chunks USING ivfflat (embedding vector_cosine_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_document ON chunks (document_id, chunk_index)`,
		`CREATE INDEX IF NOT EXISTS idx_chunks_knowledge ON chunks (knowledge_entry_id, chunk_index)`,
	}
	for _, stmt := range stmts {
		if _, err := d.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
