package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"knowbase/internal/models"
	"knowbase/internal/util"
)

// PartPath returns the on-disk location for one part of a chunked upload.
func PartPath(uploadDir string, docID int64, index int) string {
	return filepath.Join(uploadDir, fmt.Sprintf("%d_chunk_%d", docID, index))
}

// AssembleAndProcess concatenates the uploaded parts into the final file,
// removes them, and runs the ingestion pipeline. A missing part commits an
// assembly error to the document and aborts; already-written parts are left
// in place so the client can retry the upload.
func (o *Orchestrator) AssembleAndProcess(ctx context.Context, docID int64, totalParts int, clientID string) error {
	doc, err := o.deps.Documents.GetDocument(ctx, docID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			log.Printf("[ingest] document %d not found, skipping assembly", docID)
			return nil
		}
		return fmt.Errorf("load document %d: %w", docID, err)
	}

	for i := 0; i < totalParts; i++ {
		if _, err := os.Stat(PartPath(o.opts.UploadDir, docID, i)); err != nil {
			msg := fmt.Sprintf("%v: part %d of %d for %s", util.ErrMissingUploadPart, i, totalParts, doc.OriginalFilename)
			return o.failAssembly(ctx, doc, clientID, msg)
		}
	}

	storedName := doc.Filename
	if storedName == "" {
		storedName = fmt.Sprintf("%d%s", docID, filepath.Ext(doc.OriginalFilename))
	}
	finalPath := filepath.Join(o.opts.UploadDir, storedName)
	if err := concatParts(o.opts.UploadDir, docID, totalParts, finalPath); err != nil {
		return o.failAssembly(ctx, doc, clientID, fmt.Sprintf("assembling %s: %v", doc.OriginalFilename, err))
	}

	for i := 0; i < totalParts; i++ {
		if err := os.Remove(PartPath(o.opts.UploadDir, docID, i)); err != nil {
			log.Printf("[ingest] remove upload part %d for document %d: %v", i, docID, err)
		}
	}

	if err := o.deps.Documents.SetDocumentPath(ctx, docID, finalPath); err != nil {
		return fmt.Errorf("record assembled path for document %d: %w", docID, err)
	}
	return o.ProcessDocument(ctx, docID, clientID)
}

func concatParts(uploadDir string, docID int64, totalParts int, finalPath string) error {
	out, err := os.Create(finalPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", finalPath, err)
	}
	defer out.Close()

	for i := 0; i < totalParts; i++ {
		part, err := os.Open(PartPath(uploadDir, docID, i))
		if err != nil {
			return fmt.Errorf("open part %d: %w", i, err)
		}
		_, err = io.Copy(out, part)
		part.Close()
		if err != nil {
			return fmt.Errorf("copy part %d: %w", i, err)
		}
	}
	return out.Close()
}

func (o *Orchestrator) failAssembly(ctx context.Context, doc models.Document, clientID, msg string) error {
	log.Printf("[ingest] assembly for document %d failed: %s", doc.ID, msg)
	ps := models.ProcessingStatus{
		Step:     models.StepAssemblyError,
		Progress: 0,
		Error:    msg,
		FilePath: doc.FilePath,
		MimeType: doc.MimeType,
	}
	if err := o.deps.Documents.UpdateStatus(ctx, doc.ID, models.UploadStatusFailed, ps); err != nil {
		log.Printf("[ingest] record assembly failure for document %d: %v", doc.ID, err)
	}
	o.notifyError(ctx, clientID, doc.ID, doc.OriginalFilename, msg)
	return fmt.Errorf("assemble document %d: %s", doc.ID, msg)
}
