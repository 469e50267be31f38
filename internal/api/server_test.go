package api

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type brokenFile struct{}

func (brokenFile) Read([]byte) (int, error)          { return 0, errors.New("read failed") }
func (brokenFile) ReadAt([]byte, int64) (int, error) { return 0, errors.New("read failed") }
func (brokenFile) Seek(int64, int) (int64, error)    { return 0, nil }
func (brokenFile) Close() error                      { return nil }

func TestSaveUploadedFile(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(t.TempDir(), "src.bin")
	require.NoError(t, os.WriteFile(srcPath, []byte("payload"), 0o644))
	src, err := os.Open(srcPath)
	require.NoError(t, err)
	defer src.Close()

	got, err := saveUploadedFile(dir, "stored.pdf", src)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "stored.pdf"), got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	leftovers, err := filepath.Glob(filepath.Join(dir, "upload-*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestSaveUploadedFileRemovesTempOnFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := saveUploadedFile(dir, "stored.pdf", brokenFile{})
	require.Error(t, err)

	leftovers, err := filepath.Glob(filepath.Join(dir, "upload-*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}
