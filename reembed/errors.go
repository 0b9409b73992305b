package reembed

import "errors"

var (
	// ErrRepositoryRequired is returned when no item repository is supplied.
	ErrRepositoryRequired = errors.New("item repository is required")

	// ErrEmbedderRequired is returned when no embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrEmbeddingCountMismatch is returned when the embedder answers a batch
	// with a different number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
