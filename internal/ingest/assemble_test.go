package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"knowbase/internal/models"
	"knowbase/internal/notify"

	"github.com/stretchr/testify/require"
)

func TestAssembleAndProcess(t *testing.T) {
	dir := t.TempDir()
	fx := newFixture(t, Options{UploadDir: dir}, &fakeExtractor{text: "assembled body"}, makeChunks(1))
	doc := fx.docs.docs[1]
	doc.Filename = "stored.pdf"
	fx.docs.docs[1] = doc

	require.NoError(t, os.WriteFile(PartPath(dir, 1, 0), []byte("hello "), 0o644))
	require.NoError(t, os.WriteFile(PartPath(dir, 1, 1), []byte("world"), 0o644))

	require.NoError(t, fx.orc.AssembleAndProcess(context.Background(), 1, 2, ""))

	data, err := os.ReadFile(filepath.Join(dir, "stored.pdf"))
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	_, err = os.Stat(PartPath(dir, 1, 0))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(PartPath(dir, 1, 1))
	require.True(t, os.IsNotExist(err))

	require.Equal(t, filepath.Join(dir, "stored.pdf"), fx.docs.docs[1].FilePath)
	require.Equal(t, []int{1, 1}, fx.docs.completed)
}

func TestAssembleMissingPart(t *testing.T) {
	dir := t.TempDir()
	fx := newFixture(t, Options{UploadDir: dir}, &fakeExtractor{text: "assembled body"}, makeChunks(1))

	require.NoError(t, os.WriteFile(PartPath(dir, 1, 0), []byte("hello "), 0o644))

	err := fx.orc.AssembleAndProcess(context.Background(), 1, 3, "client-a")
	require.Error(t, err)

	last := fx.docs.statuses[len(fx.docs.statuses)-1]
	require.Equal(t, models.StepAssemblyError, last.Step)
	require.Contains(t, last.Error, "part 1 of 3")

	// Written parts survive so the client can resume the upload.
	_, statErr := os.Stat(PartPath(dir, 1, 0))
	require.NoError(t, statErr)

	require.Len(t, fx.publisher.events, 1)
	require.Equal(t, notify.EventProcessingError, fx.publisher.events[0].Type)
	require.Empty(t, fx.docs.completed)
}

func TestAssembleMissingDocumentIsSkipped(t *testing.T) {
	dir := t.TempDir()
	fx := newFixture(t, Options{UploadDir: dir}, &fakeExtractor{text: "body"}, makeChunks(1))
	require.NoError(t, fx.orc.AssembleAndProcess(context.Background(), 99, 2, ""))
	require.Empty(t, fx.docs.statuses)
}
