package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/reembed"
	"github.com/exhibit-org/actionbias-sub003/storage/badger"
)

// fakeEmbeddings is a langchaingo embedder whose documents call is scripted.
type fakeEmbeddings struct {
	calls int
	fn    func(call int, texts []string) ([][]float32, error)
}

func (f *fakeEmbeddings) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	return f.fn(f.calls, texts)
}

func (f *fakeEmbeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := f.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func newTestEmbedder(upstream *fakeEmbeddings, maxRetries int) *Embedder {
	return &Embedder{
		embedder:   upstream,
		maxRetries: maxRetries,
		retryDelay: time.Millisecond,
		logger:     slog.Default(),
	}
}

func failing(err error) *fakeEmbeddings {
	return &fakeEmbeddings{fn: func(int, []string) ([][]float32, error) { return nil, err }}
}

func TestEmbedder_EmbedTexts(t *testing.T) {
	t.Run("retries until success", func(t *testing.T) {
		upstream := &fakeEmbeddings{fn: func(call int, texts []string) ([][]float32, error) {
			if call < 3 {
				return nil, errors.New("temporary failure")
			}
			return [][]float32{{1, 0}}, nil
		}}
		emb := newTestEmbedder(upstream, 3)

		vecs, err := emb.EmbedTexts(context.Background(), []string{"a"})
		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1, 0}}, vecs)
		assert.Equal(t, 3, upstream.calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		cause := errors.New("service down")
		upstream := failing(cause)
		emb := newTestEmbedder(upstream, 3)

		_, err := emb.EmbedTexts(context.Background(), []string{"a"})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 3, upstream.calls)
	})
}

func TestEmbedder_BackfillAttemptsOnce(t *testing.T) {
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	item := &core.WorkItem{ID: "a", Title: "Write docs"}
	require.NoError(t, repo.PutItems(context.Background(), item))

	cause := errors.New("service down")
	upstream := failing(cause)
	processor := reembed.NewBatchProcessor(repo, newTestEmbedder(upstream, 3))

	err = processor.Process(context.Background(), []*core.WorkItem{item})
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, upstream.calls)
}
