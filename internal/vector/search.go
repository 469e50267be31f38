package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"knowbase/internal/models"

	"github.com/jackc/pgx/v5"
)

// Result is one nearest-neighbor hit. Distance is the raw cosine distance
// from the store; smaller is closer.
type Result struct {
	ChunkID    int64
	Content    string
	ChunkIndex int
	Meta       models.ChunkMeta
	Parent     models.ParentRef
	Distance   float64
}

type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Searcher struct {
	q Queryer
}

func NewSearcher(q Queryer) *Searcher {
	return &Searcher{q: q}
}

// SearchChunks returns the topK processed chunks nearest to queryVec. A
// non-empty documentIDs filter restricts the search to those documents;
// otherwise both document and knowledge-entry chunks are candidates.
// Ordering is ascending distance with chunk id as a deterministic tie-break.
func (s *Searcher) SearchChunks(ctx context.Context, queryVec []float32, topK int, documentIDs []int64) ([]Result, error) {
	if topK <= 0 {
		topK = 5
	}
	vecLiteral := ToLiteral(queryVec)
	args := []any{vecLiteral, topK}

	filterSQL := ""
	if len(documentIDs) > 0 {
		filterSQL = " AND c.document_id = ANY($3)"
		args = append(args, documentIDs)
	}

	query := `
SELECT c.id,
       c.content,
       c.chunk_index,
       c.metadata,
       c.document_id,
       c.knowledge_entry_id,
       (c.embedding <=> $1::vector) AS distance
FROM chunks c
WHERE c.processing_status = 'processed'
  AND c.embedding IS NOT NULL` + filterSQL + `
ORDER BY c.embedding <=> $1::vector, c.id
LIMIT $2`

	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	results := make([]Result, 0, topK)
	for rows.Next() {
		var (
			r       Result
			meta    []byte
			docID   *int64
			entryID *int64
		)
		if err := rows.Scan(&r.ChunkID, &r.Content, &r.ChunkIndex, &meta, &docID, &entryID, &r.Distance); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		if len(meta) > 0 {
			_ = json.Unmarshal(meta, &r.Meta)
		}
		switch {
		case docID != nil:
			r.Parent = models.DocumentParent(*docID)
		case entryID != nil:
			r.Parent = models.KnowledgeParent(*entryID)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}

func ToLiteral(v []float32) string {
	parts := make([]string, 0, len(v))
	for _, x := range v {
		parts = append(parts, fmt.Sprintf("%f", x))
	}
	return "[" + strings.Join(parts, ",") + "]"
}
