package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"knowbase/internal/models"
	"knowbase/internal/util"

	"github.com/jackc/pgx/v5"
)

type DocumentRepo struct {
	db *DB
}

func NewDocumentRepo(db *DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) CreateDocument(ctx context.Context, d models.Document) (int64, error) {
	status, err := json.Marshal(d.ProcessingStatus)
	if err != nil {
		return 0, fmt.Errorf("marshal processing status: %w", err)
	}
	meta, err := json.Marshal(orEmptyMeta(d.Metadata))
	if err != nil {
		return 0, fmt.Errorf("marshal document metadata: %w", err)
	}
	var id int64
	err = r.db.Pool.QueryRow(ctx, `
INSERT INTO documents (filename, original_filename, file_path, file_size, mime_type, upload_status, processing_status, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb)
RETURNING id`,
		d.Filename, d.OriginalFilename, d.FilePath, d.FileSize, d.MimeType, d.UploadStatus, string(status), string(meta),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

func (r *DocumentRepo) GetDocument(ctx context.Context, id int64) (models.Document, error) {
	var (
		d      models.Document
		status []byte
		meta   []byte
	)
	err := r.db.Pool.QueryRow(ctx, `
SELECT id, filename, original_filename, file_path, file_size, mime_type, upload_status,
       processing_status, chunk_count, total_chunks, extracted_text, metadata, created_at, updated_at
FROM documents WHERE id=$1`, id).
		Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize, &d.MimeType, &d.UploadStatus,
			&status, &d.ChunkCount, &d.TotalChunks, &d.ExtractedText, &meta, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Document{}, util.ErrNotFound
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("get document: %w", err)
	}
	if err := json.Unmarshal(status, &d.ProcessingStatus); err != nil {
		return models.Document{}, fmt.Errorf("decode processing status: %w", err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &d.Metadata); err != nil {
			return models.Document{}, fmt.Errorf("decode document metadata: %w", err)
		}
	}
	return d, nil
}

func (r *DocumentRepo) ListDocuments(ctx context.Context, offset, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT id, filename, original_filename, file_path, file_size, mime_type, upload_status,
       processing_status, chunk_count, total_chunks, metadata, created_at, updated_at
FROM documents
ORDER BY created_at DESC
OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	out := make([]models.Document, 0, limit)
	for rows.Next() {
		var (
			d      models.Document
			status []byte
			meta   []byte
		)
		if err := rows.Scan(&d.ID, &d.Filename, &d.OriginalFilename, &d.FilePath, &d.FileSize, &d.MimeType, &d.UploadStatus,
			&status, &d.ChunkCount, &d.TotalChunks, &meta, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		if err := json.Unmarshal(status, &d.ProcessingStatus); err != nil {
			return nil, fmt.Errorf("decode processing status: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &d.Metadata)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

// SetDocumentPath records the assembled artifact location and flips the
// document to uploaded.
func (r *DocumentRepo) SetDocumentPath(ctx context.Context, id int64, path string) error {
	status, _ := json.Marshal(models.ProcessingStatus{Step: models.StepUploaded, Progress: 100})
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET file_path=$2, upload_status=$3, processing_status=$4::jsonb, updated_at=NOW()
WHERE id=$1`, id, path, models.UploadStatusUploaded, string(status))
	if err != nil {
		return fmt.Errorf("set document path: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return util.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) UpdateStatus(ctx context.Context, id int64, uploadStatus string, ps models.ProcessingStatus) error {
	status, err := json.Marshal(ps)
	if err != nil {
		return fmt.Errorf("marshal processing status: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
UPDATE documents SET upload_status=$2, processing_status=$3::jsonb, updated_at=NOW() WHERE id=$1`,
		id, uploadStatus, string(status))
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return nil
}

func (r *DocumentRepo) SetExtractedTextPreview(ctx context.Context, id int64, preview string) error {
	_, err := r.db.Pool.Exec(ctx, `UPDATE documents SET extracted_text=$2, updated_at=NOW() WHERE id=$1`, id, preview)
	if err != nil {
		return fmt.Errorf("set extracted text preview: %w", err)
	}
	return nil
}

func (r *DocumentRepo) MarkCompleted(ctx context.Context, id int64, chunkCount, totalChunks int) error {
	status, _ := json.Marshal(models.ProcessingStatus{Step: models.StepCompleted, Progress: 100})
	_, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET upload_status=$2, processing_status=$3::jsonb, chunk_count=$4, total_chunks=$5, updated_at=NOW()
WHERE id=$1`, id, models.UploadStatusCompleted, string(status), chunkCount, totalChunks)
	if err != nil {
		return fmt.Errorf("mark document completed: %w", err)
	}
	return nil
}

// ResetForReprocess clears chunk counters and the extracted preview so the
// pipeline can run again from extraction.
func (r *DocumentRepo) ResetForReprocess(ctx context.Context, id int64) error {
	status, _ := json.Marshal(models.ProcessingStatus{Step: models.StepUploaded, Progress: 0})
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE documents SET upload_status=$2, processing_status=$3::jsonb, chunk_count=0, total_chunks=0, extracted_text='', updated_at=NOW()
WHERE id=$1`, id, models.UploadStatusUploaded, string(status))
	if err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return util.ErrNotFound
	}
	return nil
}

// DeleteDocument removes the row; chunks cascade at the schema level. The
// caller is responsible for removing the backing file.
func (r *DocumentRepo) DeleteDocument(ctx context.Context, id int64) (bool, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func orEmptyMeta(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
