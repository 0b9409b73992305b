package reembed

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/ai/mock"
	"github.com/exhibit-org/actionbias-sub003/core"
)

func testConfig() *Config {
	config := DefaultConfig()
	config.BatchSize = 2
	config.ReportInterval = 1
	return config
}

func TestNewReembedder(t *testing.T) {
	repo := setupTestRepo(t)

	_, err := NewReembedder(nil, mock.NewMockEmbedder(), nil, nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)
	_, err = NewReembedder(repo, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	r, err := NewReembedder(repo, mock.NewMockEmbedder(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, r.config.BatchSize)
}

func TestReembedder_Run(t *testing.T) {
	repo := setupTestRepo(t,
		&core.WorkItem{ID: "a", Title: "One"},
		&core.WorkItem{ID: "b", Title: "Two", Embedding: []float32{1, 0, 0}},
		&core.WorkItem{ID: "c", Title: "Three"},
		&core.WorkItem{ID: "d", Title: "Four"},
	)
	embedder := unnormalizedEmbedder()

	var out bytes.Buffer
	r, err := NewReembedder(repo, embedder, testConfig(), &out)
	require.NoError(t, err)

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, embedder.CallCount(), "three pending items in batches of two")
	assert.Contains(t, out.String(), "Embedding 3 of 4 items")
	assert.Contains(t, out.String(), "3/3")

	kept, err := repo.Item(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0}, kept.Embedding)

	t.Run("nothing pending", func(t *testing.T) {
		out.Reset()
		n, err := r.Run(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Contains(t, out.String(), "No items need embedding (4 stored)")
	})
}

func TestReembedder_Force(t *testing.T) {
	repo := setupTestRepo(t, &core.WorkItem{ID: "b", Title: "Two", Embedding: []float32{1, 0, 0}})

	config := testConfig()
	config.Force = true
	r, err := NewReembedder(repo, unnormalizedEmbedder(), config, nil)
	require.NoError(t, err)

	n, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := repo.Item(context.Background(), "b")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{1.0 / 3, 2.0 / 3, 2.0 / 3}, item.Embedding, 1e-6)
}

func TestReembedder_Canceled(t *testing.T) {
	repo := setupTestRepo(t, &core.WorkItem{ID: "a", Title: "One"})
	r, err := NewReembedder(repo, unnormalizedEmbedder(), testConfig(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForEachBatch(t *testing.T) {
	items := []*core.WorkItem{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}, {ID: "5"}}

	var sizes []int
	err := ForEachBatch(context.Background(), items, 2, func(batch []*core.WorkItem) error {
		sizes = append(sizes, len(batch))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestPending(t *testing.T) {
	items := []*core.WorkItem{{ID: "a"}, {ID: "b", Embedding: []float32{1}}}
	assert.Len(t, Pending(items, false), 1)
	assert.Len(t, Pending(items, true), 2)
}
