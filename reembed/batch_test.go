package reembed

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/ai/mock"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/storage/badger"
)

func setupTestRepo(t *testing.T, items ...*core.WorkItem) *badger.ItemRepository {
	t.Helper()
	repo, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	if len(items) > 0 {
		require.NoError(t, repo.PutItems(context.Background(), items...))
	}
	return repo
}

// unnormalizedEmbedder returns [1,2,2] (magnitude 3) for every text.
func unnormalizedEmbedder() *mock.MockEmbedder {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range texts {
			out[i] = []float32{1, 2, 2}
		}
		return out, nil
	}
	return embedder
}

func magnitude(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestBatchProcessor_Process(t *testing.T) {
	items := []*core.WorkItem{
		{ID: "a", Title: "Write docs"},
		{ID: "b", Title: "Fix build", Description: "CI is red"},
	}
	repo := setupTestRepo(t, items...)
	ctx := context.Background()

	processor := NewBatchProcessor(repo, unnormalizedEmbedder())
	require.NoError(t, processor.Process(ctx, items))

	for _, id := range []string{"a", "b"} {
		stored, err := repo.Item(ctx, id)
		require.NoError(t, err)
		require.Len(t, stored.Embedding, 3)
		assert.InDelta(t, 1.0, magnitude(stored.Embedding), 1e-6)
	}
}

func TestBatchProcessor_EmbedsItemText(t *testing.T) {
	item := &core.WorkItem{ID: "a", Title: "Fix build", Description: "CI is red"}
	repo := setupTestRepo(t, item)

	var seen []string
	embedder := unnormalizedEmbedder()
	next := embedder.EmbedTextsFunc
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		seen = append(seen, texts...)
		return next(ctx, texts)
	}

	processor := NewBatchProcessor(repo, embedder)
	require.NoError(t, processor.Process(context.Background(), []*core.WorkItem{item}))
	assert.Equal(t, []string{"Fix build\nCI is red"}, seen)
}

func TestBatchProcessor_EmptyBatch(t *testing.T) {
	embedder := unnormalizedEmbedder()
	processor := NewBatchProcessor(setupTestRepo(t), embedder)

	require.NoError(t, processor.Process(context.Background(), nil))
	assert.Equal(t, 0, embedder.CallCount())
}

func TestBatchProcessor_Failures(t *testing.T) {
	t.Run("embedder error is not retried", func(t *testing.T) {
		item := &core.WorkItem{ID: "a", Title: "x"}
		repo := setupTestRepo(t, item)
		cause := errors.New("service down")
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return nil, cause
		}
		processor := NewBatchProcessor(repo, embedder)

		err := processor.Process(context.Background(), []*core.WorkItem{item})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, embedder.CallCount())

		stored, err := repo.Item(context.Background(), "a")
		require.NoError(t, err)
		assert.Empty(t, stored.Embedding)
	})

	t.Run("count mismatch", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
			return [][]float32{{1}}, nil
		}
		processor := NewBatchProcessor(setupTestRepo(t), embedder)

		err := processor.Process(context.Background(), []*core.WorkItem{{ID: "a", Title: "x"}, {ID: "b", Title: "y"}})
		assert.ErrorIs(t, err, ErrEmbeddingCountMismatch)
	})
}
