package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"knowbase/internal/chunker"
	"knowbase/internal/models"
	"knowbase/internal/notify"
	"knowbase/internal/providers"
	"knowbase/internal/storage"
	"knowbase/internal/util"
	"knowbase/internal/vector"
)

// Collaborator contracts. The orchestrator is pure given these plus Options,
// so the pipeline is unit-testable without a scheduler or a database.
type TextExtractor interface {
	ExtractText(ctx context.Context, path, mimeType string) (string, error)
}

type TextChunker interface {
	ChunkText(text string) []string
}

type Embedder interface {
	Embed(ctx context.Context, text, mode string) []float32
}

type DocumentStore interface {
	GetDocument(ctx context.Context, id int64) (models.Document, error)
	UpdateStatus(ctx context.Context, id int64, uploadStatus string, ps models.ProcessingStatus) error
	SetExtractedTextPreview(ctx context.Context, id int64, preview string) error
	MarkCompleted(ctx context.Context, id int64, chunkCount, totalChunks int) error
	SetDocumentPath(ctx context.Context, id int64, path string) error
	ResetForReprocess(ctx context.Context, id int64) error
}

type KnowledgeStore interface {
	GetEntry(ctx context.Context, id int64) (models.KnowledgeEntry, error)
	UpdateEntryStatus(ctx context.Context, id int64, status string, chunkCount int) error
}

type ChunkStore interface {
	InsertChunks(ctx context.Context, chunks []storage.ChunkRecord) error
	DeleteByParent(ctx context.Context, parent models.ParentRef) (int64, error)
}

type Options struct {
	UploadDir         string
	MaxChunksPerBatch int
	BatchCommitEvery  int
	BatchPause        time.Duration
	PreviewLimit      int
}

func (o *Options) normalize() {
	if o.MaxChunksPerBatch <= 0 {
		o.MaxChunksPerBatch = 2000
	}
	if o.BatchCommitEvery <= 0 {
		o.BatchCommitEvery = 100
	}
	if o.PreviewLimit <= 0 {
		o.PreviewLimit = 10000
	}
}

type Deps struct {
	Extractor TextExtractor
	Clean     func(string) string
	Chunker   TextChunker
	Embedder  Embedder
	Documents DocumentStore
	Entries   KnowledgeStore
	Chunks    ChunkStore
	Publisher notify.Publisher
}

// Orchestrator drives one parent through
// extraction -> cleaning -> chunking -> embedding -> persistence, recording a
// progress snapshot at every transition. A run is the only writer to its
// parent; concurrent runs for the same parent are excluded by the task queue.
type Orchestrator struct {
	opts  Options
	deps  Deps
	sleep func(time.Duration)
}

func New(opts Options, deps Deps) *Orchestrator {
	opts.normalize()
	return &Orchestrator{opts: opts, deps: deps, sleep: time.Sleep}
}

// ProcessDocument runs the full pipeline for one document. A missing document
// is logged and ignored; every other failure is committed to the document's
// status record before the error is returned.
func (o *Orchestrator) ProcessDocument(ctx context.Context, docID int64, clientID string) error {
	doc, err := o.deps.Documents.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			log.Printf("[ingest] document %d not found, skipping", docID)
			return nil
		}
		return fmt.Errorf("load document %d: %w", docID, err)
	}
	log.Printf("[ingest] starting document %d (%s)", docID, doc.OriginalFilename)

	o.setDocStep(ctx, docID, models.ProcessingStatus{Step: models.StepTextExtraction, Progress: 10})

	text, err := o.deps.Extractor.ExtractText(ctx, doc.FilePath, doc.MimeType)
	if err != nil || strings.TrimSpace(text) == "" {
		msg := fmt.Sprintf("no text extracted from %s: file may be corrupted, password-protected, or contain only images", doc.OriginalFilename)
		if err != nil {
			msg = fmt.Sprintf("%s (%v)", msg, err)
		}
		return o.failDocument(ctx, doc, clientID, msg)
	}

	if err := o.deps.Documents.SetExtractedTextPreview(ctx, docID, util.Preview(text, o.opts.PreviewLimit)); err != nil {
		log.Printf("[ingest] store preview for document %d: %v", docID, err)
	}
	o.setDocStep(ctx, docID, models.ProcessingStatus{Step: models.StepTextCleaning, Progress: 30})

	cleaned := o.deps.Clean(text)
	if strings.TrimSpace(cleaned) == "" {
		return o.failDocument(ctx, doc, clientID, fmt.Sprintf("%v for %s", util.ErrEmptyAfterCleaning, doc.OriginalFilename))
	}

	o.setDocStep(ctx, docID, models.ProcessingStatus{Step: models.StepChunking, Progress: 50})
	chunks := o.deps.Chunker.ChunkText(cleaned)
	if len(chunks) == 0 {
		return o.failDocument(ctx, doc, clientID, fmt.Sprintf("%v for %s", util.ErrNoChunks, doc.OriginalFilename))
	}

	parent := models.DocumentParent(docID)
	var successful int
	if len(chunks) > o.opts.MaxChunksPerBatch {
		successful, err = o.embedBatched(ctx, docID, parent, chunks)
	} else {
		o.setDocStep(ctx, docID, models.ProcessingStatus{Step: models.StepEmbedding, Progress: 70})
		successful, err = o.embedSinglePass(ctx, parent, chunks)
	}
	if err != nil {
		return o.failDocument(ctx, doc, clientID, err.Error())
	}
	if successful == 0 {
		return o.failDocument(ctx, doc, clientID, fmt.Sprintf("%v for %s", util.ErrAllChunksFailed, doc.OriginalFilename))
	}

	if err := o.deps.Documents.MarkCompleted(ctx, docID, successful, len(chunks)); err != nil {
		return fmt.Errorf("mark document %d completed: %w", docID, err)
	}
	log.Printf("[ingest] document %d complete: %d/%d chunks", docID, successful, len(chunks))
	o.notifyComplete(ctx, clientID, docID, doc.OriginalFilename)
	return nil
}

// embedSinglePass embeds chunks in order, skipping any whose embedding comes
// back nil, and persists the survivors in one transaction.
func (o *Orchestrator) embedSinglePass(ctx context.Context, parent models.ParentRef, chunks []string) (int, error) {
	records := make([]storage.ChunkRecord, 0, len(chunks))
	for i, text := range chunks {
		vec := o.deps.Embedder.Embed(ctx, text, providers.ModeDocument)
		if vec == nil {
			log.Printf("[ingest] empty embedding for chunk %d, skipping", i)
			continue
		}
		records = append(records, chunkRecord(parent, i, text, vec))
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := o.deps.Chunks.InsertChunks(ctx, records); err != nil {
		return 0, fmt.Errorf("persist chunks: %w", err)
	}
	return len(records), nil
}

// embedBatched partitions the chunk list into ceiling-sized slices and
// processes them sequentially with intermediate commits. A slice failure
// aborts the run but keeps previously committed chunks (explicit
// partial-success policy; recovery is a manual reprocess).
func (o *Orchestrator) embedBatched(ctx context.Context, docID int64, parent models.ParentRef, chunks []string) (int, error) {
	total := len(chunks)
	batchSize := o.opts.MaxChunksPerBatch
	totalBatches := (total + batchSize - 1) / batchSize
	log.Printf("[ingest] document %d: %d chunks in %d batches", docID, total, totalBatches)

	successful := 0
	for batch := 0; batch < totalBatches; batch++ {
		start := batch * batchSize
		end := min(start+batchSize, total)

		// Progress spans 70-100% proportionally across batches.
		o.setDocStep(ctx, docID, models.ProcessingStatus{
			Step:         models.StepEmbeddingBatch,
			Progress:     70 + batch*30/totalBatches,
			Batch:        batch + 1,
			TotalBatches: totalBatches,
		})

		n, err := o.embedSlice(ctx, parent, chunks[start:end], start)
		if err != nil {
			return successful, fmt.Errorf("batch %d/%d failed: %w", batch+1, totalBatches, err)
		}
		successful += n
		log.Printf("[ingest] document %d batch %d/%d: %d/%d chunks", docID, batch+1, totalBatches, n, end-start)

		if batch < totalBatches-1 && o.opts.BatchPause > 0 {
			o.sleep(o.opts.BatchPause)
		}
	}
	return successful, nil
}

// embedSlice embeds one slice, committing pending rows every BatchCommitEvery
// chunks to bound transaction size.
func (o *Orchestrator) embedSlice(ctx context.Context, parent models.ParentRef, slice []string, startIndex int) (int, error) {
	pending := make([]storage.ChunkRecord, 0, o.opts.BatchCommitEvery)
	successful := 0
	for i, text := range slice {
		vec := o.deps.Embedder.Embed(ctx, text, providers.ModeDocument)
		if vec == nil {
			log.Printf("[ingest] empty embedding for chunk %d, skipping", startIndex+i)
			continue
		}
		pending = append(pending, chunkRecord(parent, startIndex+i, text, vec))
		if len(pending) >= o.opts.BatchCommitEvery {
			if err := o.deps.Chunks.InsertChunks(ctx, pending); err != nil {
				return successful, fmt.Errorf("persist chunk batch: %w", err)
			}
			successful += len(pending)
			pending = pending[:0]
		}
	}
	if len(pending) > 0 {
		if err := o.deps.Chunks.InsertChunks(ctx, pending); err != nil {
			return successful, fmt.Errorf("persist chunk batch: %w", err)
		}
		successful += len(pending)
	}
	return successful, nil
}

// ProcessKnowledgeEntry runs the cleaning/chunking/embedding pipeline over a
// manual knowledge entry's content field.
func (o *Orchestrator) ProcessKnowledgeEntry(ctx context.Context, entryID int64, clientID string) error {
	entry, err := o.deps.Entries.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			log.Printf("[ingest] knowledge entry %d not found, skipping", entryID)
			return nil
		}
		return fmt.Errorf("load knowledge entry %d: %w", entryID, err)
	}

	cleaned := o.deps.Clean(entry.Content)
	if strings.TrimSpace(cleaned) == "" {
		return o.failEntry(ctx, entry, clientID, fmt.Sprintf("%v for knowledge entry %q", util.ErrEmptyAfterCleaning, entry.Title))
	}
	chunks := o.deps.Chunker.ChunkText(cleaned)
	if len(chunks) == 0 {
		return o.failEntry(ctx, entry, clientID, fmt.Sprintf("%v for knowledge entry %q", util.ErrNoChunks, entry.Title))
	}

	successful, err := o.embedSinglePass(ctx, models.KnowledgeParent(entryID), chunks)
	if err != nil {
		return o.failEntry(ctx, entry, clientID, err.Error())
	}
	if successful == 0 {
		return o.failEntry(ctx, entry, clientID, fmt.Sprintf("%v for knowledge entry %q", util.ErrAllChunksFailed, entry.Title))
	}

	if err := o.deps.Entries.UpdateEntryStatus(ctx, entryID, models.ChunkStatusProcessed, successful); err != nil {
		return fmt.Errorf("mark knowledge entry %d processed: %w", entryID, err)
	}
	o.notifyComplete(ctx, clientID, entryID, entry.Title)
	return nil
}

// ReprocessDocument deletes all chunks for the document, resets it to its
// pre-ingestion state and re-runs the pipeline. Safe to invoke repeatedly.
func (o *Orchestrator) ReprocessDocument(ctx context.Context, docID int64, clientID string) error {
	deleted, err := o.deps.Chunks.DeleteByParent(ctx, models.DocumentParent(docID))
	if err != nil {
		return fmt.Errorf("clear chunks for document %d: %w", docID, err)
	}
	if deleted > 0 {
		log.Printf("[ingest] reprocess document %d: cleared %d chunks", docID, deleted)
	}
	if err := o.deps.Documents.ResetForReprocess(ctx, docID); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			log.Printf("[ingest] document %d not found, skipping reprocess", docID)
			return nil
		}
		return fmt.Errorf("reset document %d: %w", docID, err)
	}
	return o.ProcessDocument(ctx, docID, clientID)
}

func (o *Orchestrator) setDocStep(ctx context.Context, docID int64, ps models.ProcessingStatus) {
	if err := o.deps.Documents.UpdateStatus(ctx, docID, models.UploadStatusProcessing, ps); err != nil {
		log.Printf("[ingest] update status for document %d: %v", docID, err)
	}
}

// failDocument commits the error snapshot before surfacing the failure, so
// the polled status is accurate even when the background task dies.
func (o *Orchestrator) failDocument(ctx context.Context, doc models.Document, clientID, msg string) error {
	log.Printf("[ingest] document %d (%s) failed: %s", doc.ID, doc.OriginalFilename, msg)
	ps := models.ProcessingStatus{
		Step:     models.StepError,
		Progress: 0,
		Error:    msg,
		FilePath: doc.FilePath,
		MimeType: doc.MimeType,
	}
	if err := o.deps.Documents.UpdateStatus(ctx, doc.ID, models.UploadStatusFailed, ps); err != nil {
		log.Printf("[ingest] record failure for document %d: %v", doc.ID, err)
	}
	o.notifyError(ctx, clientID, doc.ID, doc.OriginalFilename, msg)
	return fmt.Errorf("ingest document %d: %s", doc.ID, msg)
}

func (o *Orchestrator) failEntry(ctx context.Context, entry models.KnowledgeEntry, clientID, msg string) error {
	log.Printf("[ingest] knowledge entry %d (%s) failed: %s", entry.ID, entry.Title, msg)
	if err := o.deps.Entries.UpdateEntryStatus(ctx, entry.ID, models.ChunkStatusFailed, 0); err != nil {
		log.Printf("[ingest] record failure for knowledge entry %d: %v", entry.ID, err)
	}
	o.notifyError(ctx, clientID, entry.ID, entry.Title, msg)
	return fmt.Errorf("ingest knowledge entry %d: %s", entry.ID, msg)
}

func (o *Orchestrator) notifyComplete(ctx context.Context, clientID string, id int64, filename string) {
	if clientID == "" || o.deps.Publisher == nil {
		return
	}
	ev := notify.Event{Type: notify.EventProcessingComplete, DocumentID: id, Filename: filename}
	if err := o.deps.Publisher.Publish(ctx, clientID, ev); err != nil {
		log.Printf("[ingest] notify %s: %v", clientID, err)
	}
}

func (o *Orchestrator) notifyError(ctx context.Context, clientID string, id int64, filename, msg string) {
	if clientID == "" || o.deps.Publisher == nil {
		return
	}
	ev := notify.Event{Type: notify.EventProcessingError, DocumentID: id, Filename: filename, Error: msg}
	if err := o.deps.Publisher.Publish(ctx, clientID, ev); err != nil {
		log.Printf("[ingest] notify %s: %v", clientID, err)
	}
}

func chunkRecord(parent models.ParentRef, index int, text string, vec []float32) storage.ChunkRecord {
	sanitized := util.SanitizeText(text)
	literal := vector.ToLiteral(vec)
	return storage.ChunkRecord{
		Parent:           parent,
		ChunkIndex:       index,
		Content:          sanitized,
		ContentCleaned:   sanitized,
		EmbeddingLiteral: &literal,
		Meta: models.ChunkMeta{
			PageNumber:    chunker.PageNumber(text),
			SectionHeader: chunker.SectionHeader(text),
		},
		WordCount:        len(strings.Fields(sanitized)),
		CharCount:        len([]rune(sanitized)),
		ProcessingStatus: models.ChunkStatusProcessed,
	}
}
