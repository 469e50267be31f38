package util

import "errors"

var (
	ErrNotFound = errors.New("not found")

	ErrNoExtractableText  = errors.New("no text could be extracted")
	ErrEmptyAfterCleaning = errors.New("text empty after cleaning")
	ErrNoChunks           = errors.New("chunking produced no chunks")
	ErrAllChunksFailed    = errors.New("no chunks were successfully embedded")
	ErrMissingUploadPart  = errors.New("missing upload part")

	ErrQueryEmbedding = errors.New("failed to generate query embedding")
)
