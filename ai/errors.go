package ai

import "errors"

var (
	// ErrEmbeddingsDisabled is returned by DisabledEmbedder.
	ErrEmbeddingsDisabled = errors.New("embeddings are disabled")

	// ErrInvalidMaxAttempts is returned when retrying with a non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrEmbedderRequired is returned when a decorator is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")
)
