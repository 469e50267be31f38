package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"knowbase/internal/models"
)

// ChunkRecord is the insert shape for one chunk row. EmbeddingLiteral is a
// pgvector literal ("[0.1,0.2,...]"); nil leaves the column NULL.
type ChunkRecord struct {
	Parent           models.ParentRef
	ChunkIndex       int
	Content          string
	ContentCleaned   string
	EmbeddingLiteral *string
	Meta             models.ChunkMeta
	WordCount        int
	CharCount        int
	ProcessingStatus string
}

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// InsertChunks writes all records in one transaction. Callers that need a
// bounded commit cadence split their input and call this per slice.
func (r *ChunkRepo) InsertChunks(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, c := range chunks {
		var docID, entryID *int64
		switch c.Parent.Kind {
		case models.ParentDocument:
			docID = &c.Parent.ID
		case models.ParentKnowledge:
			entryID = &c.Parent.ID
		default:
			return fmt.Errorf("insert chunk %d: unknown parent kind %q", c.ChunkIndex, c.Parent.Kind)
		}
		meta, err := json.Marshal(c.Meta)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO chunks (document_id, knowledge_entry_id, chunk_index, content, content_cleaned, embedding, metadata, word_count, char_count, processing_status)
VALUES ($1, $2, $3, $4, $5, CASE WHEN $6::text IS NULL THEN NULL ELSE $6::vector END, $7::jsonb, $8, $9, $10)`,
			docID, entryID, c.ChunkIndex, c.Content, c.ContentCleaned, c.EmbeddingLiteral, string(meta),
			c.WordCount, c.CharCount, c.ProcessingStatus,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.ChunkIndex, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

// DeleteByParent removes every chunk owned by the parent and returns how many
// rows were deleted. Used by reprocess before re-running the pipeline.
func (r *ChunkRepo) DeleteByParent(ctx context.Context, parent models.ParentRef) (int64, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return 0, err
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM chunks WHERE `+column+`=$1`, parent.ID)
	if err != nil {
		return 0, fmt.Errorf("delete chunks by parent: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ChunkRepo) CountByParent(ctx context.Context, parent models.ParentRef) (int, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM chunks WHERE `+column+`=$1`, parent.ID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks by parent: %w", err)
	}
	return n, nil
}

func (r *ChunkRepo) ListByParent(ctx context.Context, parent models.ParentRef) ([]models.Chunk, error) {
	column, err := parentColumn(parent.Kind)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT id, chunk_index, content, content_cleaned, metadata, word_count, char_count, processing_status, created_at
FROM chunks WHERE `+column+`=$1
ORDER BY chunk_index ASC`, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("list chunks by parent: %w", err)
	}
	defer rows.Close()
	out := make([]models.Chunk, 0, 64)
	for rows.Next() {
		var (
			c    models.Chunk
			meta []byte
		)
		if err := rows.Scan(&c.ID, &c.ChunkIndex, &c.Content, &c.ContentCleaned, &meta, &c.WordCount, &c.CharCount, &c.ProcessingStatus, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &c.Meta)
		}
		c.Parent = parent
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return out, nil
}

func parentColumn(kind models.ParentKind) (string, error) {
	switch kind {
	case models.ParentDocument:
		return "document_id", nil
	case models.ParentKnowledge:
		return "knowledge_entry_id", nil
	default:
		return "", fmt.Errorf("unknown parent kind %q", kind)
	}
}
