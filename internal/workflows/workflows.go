package workflows

import (
	"fmt"
	"time"

	"knowbase/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// DocumentIngestWorkflowID is shared by all ingestion paths for a document so
// the queue rejects a second concurrent run for the same parent. Failed runs
// record their error on the document itself; nothing here retries.
func DocumentIngestWorkflowID(docID int64) string {
	return fmt.Sprintf("ingest-doc-%d", docID)
}

func KnowledgeIngestWorkflowID(entryID int64) string {
	return fmt.Sprintf("ingest-entry-%d", entryID)
}

func ingestActivityOptions(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			// A failed pipeline run leaves committed chunks behind.
			// Recovery is an explicit reprocess, never an automatic retry.
			MaximumAttempts: 1,
		},
	})
}

func DocumentIngestWorkflow(ctx workflow.Context, input DocumentIngestInput) error {
	ctx = ingestActivityOptions(ctx)
	return workflow.ExecuteActivity(ctx, "ProcessDocumentActivity", activities.ProcessDocumentInput{
		DocumentID: input.DocumentID,
		ClientID:   input.ClientID,
	}).Get(ctx, nil)
}

func ChunkedUploadWorkflow(ctx workflow.Context, input ChunkedUploadInput) error {
	ctx = ingestActivityOptions(ctx)
	return workflow.ExecuteActivity(ctx, "AssembleUploadActivity", activities.AssembleUploadInput{
		DocumentID: input.DocumentID,
		TotalParts: input.TotalParts,
		ClientID:   input.ClientID,
	}).Get(ctx, nil)
}

func ReprocessWorkflow(ctx workflow.Context, input ReprocessInput) error {
	ctx = ingestActivityOptions(ctx)
	return workflow.ExecuteActivity(ctx, "ReprocessDocumentActivity", activities.ReprocessDocumentInput{
		DocumentID: input.DocumentID,
		ClientID:   input.ClientID,
	}).Get(ctx, nil)
}

func KnowledgeEntryIngestWorkflow(ctx workflow.Context, input KnowledgeEntryIngestInput) error {
	ctx = ingestActivityOptions(ctx)
	return workflow.ExecuteActivity(ctx, "ProcessKnowledgeEntryActivity", activities.ProcessKnowledgeEntryInput{
		EntryID:  input.EntryID,
		ClientID: input.ClientID,
	}).Get(ctx, nil)
}
