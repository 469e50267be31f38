package storage

import (
	"context"
	"errors"
	"fmt"

	"knowbase/internal/models"
	"knowbase/internal/util"

	"github.com/jackc/pgx/v5"
)

type KnowledgeRepo struct {
	db *DB
}

func NewKnowledgeRepo(db *DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

func (r *KnowledgeRepo) CreateEntry(ctx context.Context, e models.KnowledgeEntry) (int64, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
INSERT INTO knowledge_entries (title, summary, content, keywords, categories, source, author, date, processing_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`,
		e.Title, e.Summary, e.Content, orEmptyList(e.Keywords), orEmptyList(e.Categories),
		e.Source, e.Author, e.Date, models.ChunkStatusPending,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert knowledge entry: %w", err)
	}
	return id, nil
}

func (r *KnowledgeRepo) GetEntry(ctx context.Context, id int64) (models.KnowledgeEntry, error) {
	var e models.KnowledgeEntry
	err := r.db.Pool.QueryRow(ctx, `
SELECT id, title, summary, content, keywords, categories, source, author, date,
       chunk_count, processing_status, created_at, updated_at
FROM knowledge_entries WHERE id=$1`, id).
		Scan(&e.ID, &e.Title, &e.Summary, &e.Content, &e.Keywords, &e.Categories, &e.Source, &e.Author, &e.Date,
			&e.ChunkCount, &e.ProcessingStatus, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.KnowledgeEntry{}, util.ErrNotFound
	}
	if err != nil {
		return models.KnowledgeEntry{}, fmt.Errorf("get knowledge entry: %w", err)
	}
	return e, nil
}

func (r *KnowledgeRepo) ListEntries(ctx context.Context, offset, limit int) ([]models.KnowledgeEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT id, title, summary, content, keywords, categories, source, author, date,
       chunk_count, processing_status, created_at, updated_at
FROM knowledge_entries
ORDER BY created_at DESC
OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list knowledge entries: %w", err)
	}
	defer rows.Close()
	out := make([]models.KnowledgeEntry, 0, limit)
	for rows.Next() {
		var e models.KnowledgeEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Summary, &e.Content, &e.Keywords, &e.Categories, &e.Source, &e.Author, &e.Date,
			&e.ChunkCount, &e.ProcessingStatus, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan knowledge entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate knowledge entries: %w", err)
	}
	return out, nil
}

func (r *KnowledgeRepo) UpdateEntryStatus(ctx context.Context, id int64, status string, chunkCount int) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE knowledge_entries SET processing_status=$2, chunk_count=$3, updated_at=NOW() WHERE id=$1`,
		id, status, chunkCount)
	if err != nil {
		return fmt.Errorf("update knowledge entry status: %w", err)
	}
	return nil
}

func (r *KnowledgeRepo) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM knowledge_entries WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete knowledge entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func orEmptyList(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
