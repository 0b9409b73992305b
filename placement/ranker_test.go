package placement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

func TestNewRanker(t *testing.T) {
	index := hierarchy.NewIndex(nil)
	searcher, err := vector.NewSearcher(vector.NewMemoryIndex(nil))
	require.NoError(t, err)

	_, err = NewRanker(nil, index)
	assert.Equal(t, ErrSearcherRequired, err)

	_, err = NewRanker(searcher, nil)
	assert.Equal(t, ErrGraphRequired, err)

	_, err = NewRanker(searcher, index, WithParallelism(0))
	assert.Equal(t, ErrInvalidParallelism, err)

	r, err := NewRanker(searcher, index, WithLogger(nil))
	require.NoError(t, err)
	assert.NotNil(t, r)
}

func TestRanker_Rank(t *testing.T) {
	f := newFixture(t)

	got := f.ranker.Rank(context.Background(), queryVector, DefaultRankOptions())
	require.Len(t, got, 2)

	// Four neighbors clear the relaxed threshold; "auth" recurs twice as a parent.
	wantFamily := 0.3*(2.0/4.0) + 0.4*(cos(t, "login")+cos(t, "reset"))/2 + 0.3*cos(t, "auth")
	assert.Equal(t, "auth", got[0].ID)
	assert.True(t, got[0].Family)
	assert.InDelta(t, wantFamily, got[0].Similarity, 1e-9)
	assert.Equal(t, []string{"Platform", "Authentication"}, got[0].HierarchyPath)
	assert.Equal(t, 1, got[0].Depth)

	// Children of the family and the family itself are not repeated as siblings.
	assert.Equal(t, "session", got[1].ID)
	assert.False(t, got[1].Family)
	assert.InDelta(t, cos(t, "session"), got[1].Similarity, 1e-9)
	assert.Equal(t, []string{"Billing", "Session timeout"}, got[1].HierarchyPath)
}

func TestRanker_Rank_SlotSplit(t *testing.T) {
	f := newFixture(t)

	got := f.ranker.Rank(context.Background(), queryVector, RankOptions{Limit: 1, Threshold: 0.5})
	require.Len(t, got, 1)
	assert.Equal(t, "auth", got[0].ID)
}

func TestRanker_Rank_ExcludesAndEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// With "login" excluded, "auth" keeps a single child and no family qualifies.
	got := f.ranker.Rank(ctx, queryVector, RankOptions{Limit: 5, Threshold: 0.5, ExcludeIDs: []string{"login"}})
	require.Len(t, got, 2)
	assert.Equal(t, "auth", got[0].ID)
	assert.False(t, got[0].Family)
	assert.Equal(t, "reset", got[1].ID)

	assert.Empty(t, f.ranker.Rank(ctx, nil, DefaultRankOptions()))
	assert.Empty(t, f.ranker.Rank(ctx, []float32{0, 0}, DefaultRankOptions()))
}

func TestRanker_Rank_Deterministic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.ranker.Rank(ctx, queryVector, DefaultRankOptions())
	for range 10 {
		assert.Equal(t, first, f.ranker.Rank(ctx, queryVector, DefaultRankOptions()))
	}
}

func TestRanker_Rank_CyclicHierarchy(t *testing.T) {
	items := []core.WorkItem{
		{ID: "a", Title: "A", ParentID: "b", Embedding: []float32{1, 0}},
		{ID: "b", Title: "B", ParentID: "a", Embedding: []float32{0.9, 0.1}},
	}
	searcher, err := vector.NewSearcher(vector.NewMemoryIndex(items))
	require.NoError(t, err)
	r, err := NewRanker(searcher, hierarchy.NewIndex(items))
	require.NoError(t, err)

	got := r.Rank(context.Background(), queryVector, DefaultRankOptions())
	require.NotEmpty(t, got)
	for _, c := range got {
		assert.LessOrEqual(t, len(c.HierarchyPath), 2)
	}
}
