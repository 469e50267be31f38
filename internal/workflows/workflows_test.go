package workflows

import (
	"context"
	"errors"
	"testing"

	"knowbase/internal/activities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
)

func registerActivityName[T any](env *testsuite.TestWorkflowEnvironment, name string, fn T) {
	env.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
}

func TestDocumentIngestWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)
	registerActivityName(env, "ProcessDocumentActivity", func(context.Context, activities.ProcessDocumentInput) error { return nil })

	env.OnActivity("ProcessDocumentActivity", mock.Anything, activities.ProcessDocumentInput{DocumentID: 7, ClientID: "c1"}).Return(nil)

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{DocumentID: 7, ClientID: "c1"})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestDocumentIngestWorkflowDoesNotRetry(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(DocumentIngestWorkflow)

	attempts := 0
	registerActivityName(env, "ProcessDocumentActivity", func(context.Context, activities.ProcessDocumentInput) error {
		attempts++
		return errors.New("extraction failed")
	})

	env.ExecuteWorkflow(DocumentIngestWorkflow, DocumentIngestInput{DocumentID: 7})
	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 1, attempts)
}

func TestChunkedUploadWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(ChunkedUploadWorkflow)
	registerActivityName(env, "AssembleUploadActivity", func(context.Context, activities.AssembleUploadInput) error { return nil })

	env.OnActivity("AssembleUploadActivity", mock.Anything, activities.AssembleUploadInput{DocumentID: 3, TotalParts: 5}).Return(nil)

	env.ExecuteWorkflow(ChunkedUploadWorkflow, ChunkedUploadInput{DocumentID: 3, TotalParts: 5})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestKnowledgeEntryIngestWorkflow(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(KnowledgeEntryIngestWorkflow)
	registerActivityName(env, "ProcessKnowledgeEntryActivity", func(context.Context, activities.ProcessKnowledgeEntryInput) error { return nil })

	env.OnActivity("ProcessKnowledgeEntryActivity", mock.Anything, activities.ProcessKnowledgeEntryInput{EntryID: 9}).Return(nil)

	env.ExecuteWorkflow(KnowledgeEntryIngestWorkflow, KnowledgeEntryIngestInput{EntryID: 9})
	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	env.AssertExpectations(t)
}

func TestWorkflowIDs(t *testing.T) {
	require.Equal(t, "ingest-doc-42", DocumentIngestWorkflowID(42))
	require.Equal(t, "ingest-entry-7", KnowledgeIngestWorkflowID(7))
}
