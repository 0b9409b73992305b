package ai

import "context"

// DisabledEmbedder is the Embedder used when embeddings are switched off.
// Every call fails with ErrEmbeddingsDisabled.
type DisabledEmbedder struct{}

var _ Embedder = DisabledEmbedder{}

// EmbedText implements Embedder.
func (DisabledEmbedder) EmbedText(context.Context, string) ([]float32, error) {
	return nil, ErrEmbeddingsDisabled
}

// EmbedTexts implements Embedder.
func (DisabledEmbedder) EmbedTexts(context.Context, []string) ([][]float32, error) {
	return nil, ErrEmbeddingsDisabled
}
