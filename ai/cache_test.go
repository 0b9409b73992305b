package ai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingEmbedder returns len(text) as a one-dimensional vector.
type countingEmbedder struct {
	mu        sync.Mutex
	single    int
	batch     int
	lastBatch []string
	err       error
}

func (e *countingEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.single++
	if e.err != nil {
		return nil, e.err
	}
	return []float32{float32(len(text))}, nil
}

func (e *countingEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.batch++
	e.lastBatch = texts
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text))}
	}
	return out, nil
}

func TestNewCachingEmbedder(t *testing.T) {
	_, err := NewCachingEmbedder(nil, 10)
	assert.Equal(t, ErrEmbedderRequired, err)

	_, err = NewCachingEmbedder(&countingEmbedder{}, 0)
	assert.Error(t, err)
}

func TestCachingEmbedder_EmbedText(t *testing.T) {
	inner := &countingEmbedder{}
	c, err := NewCachingEmbedder(inner, 100)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	first, err := c.EmbedText(ctx, "fix login bug")
	require.NoError(t, err)
	second, err := c.EmbedText(ctx, "fix login bug")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.single)
}

func TestCachingEmbedder_EmbedTexts(t *testing.T) {
	inner := &countingEmbedder{}
	c, err := NewCachingEmbedder(inner, 100)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	_, err = c.EmbedText(ctx, "cached")
	require.NoError(t, err)

	got, err := c.EmbedTexts(ctx, []string{"cached", "fresh", "newer"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{6}, {5}, {5}}, got)
	assert.Equal(t, []string{"fresh", "newer"}, inner.lastBatch)

	_, err = c.EmbedTexts(ctx, []string{"fresh", "newer"})
	require.NoError(t, err)
	assert.Equal(t, 1, inner.batch)
}

func TestCachingEmbedder_ErrorsAreNotCached(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("unavailable")}
	c, err := NewCachingEmbedder(inner, 100)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.EmbedText(context.Background(), "text")
	require.Error(t, err)

	inner.err = nil
	vec, err := c.EmbedText(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{4}, vec)
	assert.Equal(t, 2, inner.single)
}

func TestDisabledEmbedder(t *testing.T) {
	var e Embedder = DisabledEmbedder{}

	_, err := e.EmbedText(context.Background(), "text")
	assert.ErrorIs(t, err, ErrEmbeddingsDisabled)

	_, err = e.EmbedTexts(context.Background(), []string{"text"})
	assert.ErrorIs(t, err, ErrEmbeddingsDisabled)
}
