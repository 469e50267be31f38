package activities

import (
	"context"
	"time"

	"knowbase/internal/chunker"
	"knowbase/internal/config"
	"knowbase/internal/embedding"
	"knowbase/internal/extract"
	"knowbase/internal/ingest"
	"knowbase/internal/notify"
	"knowbase/internal/providers"
	"knowbase/internal/storage"
)

// Activities hosts the coarse ingestion activities. Each activity wraps one
// orchestrator entry point; the pipeline itself lives in internal/ingest so
// the state machine stays testable without a Temporal test environment.
type Activities struct {
	cfg          config.Config
	orchestrator *ingest.Orchestrator
}

func New(cfg config.Config, db *storage.DB, publisher notify.Publisher) (*Activities, error) {
	pm, err := providers.NewManager(cfg.EmbedProviders, cfg.LLMProviders, cfg.EmbedDim)
	if err != nil {
		return nil, err
	}

	var ocr extract.OCRClient = extract.DisabledOCR{}
	if cfg.OCRBaseURL != "" {
		ocr = extract.NewHTTPOCRClient(cfg.OCRBaseURL)
	}

	orc := ingest.New(ingest.Options{
		UploadDir:         cfg.UploadDir,
		MaxChunksPerBatch: cfg.MaxChunksPerBatch,
		BatchCommitEvery:  cfg.BatchCommitEvery,
		BatchPause:        time.Duration(cfg.BatchPauseSecs) * time.Second,
	}, ingest.Deps{
		Extractor: extract.NewExtractor(ocr, cfg.OCRLanguages),
		Clean:     extract.Clean,
		Chunker:   chunker.New(cfg.ChunkSize, cfg.ChunkOverlap, chunker.NewTokenCounter()),
		Embedder:  embedding.NewAdapter(pm.EmbedProvider(), cfg.EmbedDim),
		Documents: storage.NewDocumentRepo(db),
		Entries:   storage.NewKnowledgeRepo(db),
		Chunks:    storage.NewChunkRepo(db),
		Publisher: publisher,
	})

	return &Activities{cfg: cfg, orchestrator: orc}, nil
}

func (a *Activities) ProcessDocumentActivity(ctx context.Context, in ProcessDocumentInput) error {
	return a.orchestrator.ProcessDocument(ctx, in.DocumentID, in.ClientID)
}

func (a *Activities) AssembleUploadActivity(ctx context.Context, in AssembleUploadInput) error {
	return a.orchestrator.AssembleAndProcess(ctx, in.DocumentID, in.TotalParts, in.ClientID)
}

func (a *Activities) ReprocessDocumentActivity(ctx context.Context, in ReprocessDocumentInput) error {
	return a.orchestrator.ReprocessDocument(ctx, in.DocumentID, in.ClientID)
}

func (a *Activities) ProcessKnowledgeEntryActivity(ctx context.Context, in ProcessKnowledgeEntryInput) error {
	return a.orchestrator.ProcessKnowledgeEntry(ctx, in.EntryID, in.ClientID)
}
