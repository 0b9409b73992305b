package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/storage"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

func newTestRepository(t *testing.T) *ItemRepository {
	t.Helper()
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedItems() []*core.WorkItem {
	return []*core.WorkItem{
		{ID: "root", Title: "Platform"},
		{ID: "auth", Title: "Authentication", ParentID: "root", Embedding: []float32{1, 0}},
		{ID: "login", Title: "Login form", ParentID: "auth", Embedding: []float32{0.8, 0.6}},
		{ID: "billing", Title: "Billing", ParentID: "root", Embedding: []float32{0, 1}},
		{ID: "launch", Title: "Launch", DependsOn: []string{"auth", "billing"}},
		{ID: "old", Title: "Old auth", ParentID: "root", Done: true, Embedding: []float32{1, 0}},
	}
}

func titles(items []*core.WorkItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Title
	}
	return out
}

func TestItemRepository_PutAndGet(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	item, err := repo.Item(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, "Login form", item.Title)
	assert.Equal(t, []float32{0.8, 0.6}, item.Embedding)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	items, err := repo.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Platform", "Authentication", "Login form", "Billing", "Launch", "Old auth"}, titles(items))
}

func TestItemRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.Item(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, err, hierarchy.ErrNotFound)

	_, err = repo.ParentOf(ctx, "missing")
	assert.ErrorIs(t, err, hierarchy.ErrNotFound)

	children, err := repo.ChildrenOf(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, children)

	assert.ErrorIs(t, repo.DeleteItems(ctx, "missing"), storage.ErrNotFound)
}

func TestItemRepository_InvalidItem(t *testing.T) {
	repo := newTestRepository(t)
	err := repo.PutItems(context.Background(), &core.WorkItem{Title: "No id"})
	assert.ErrorIs(t, err, storage.ErrInvalidItem)
}

func TestItemRepository_Edges(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	parent, err := repo.ParentOf(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, "auth", parent)

	children, err := repo.ChildrenOf(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "billing", "old"}, children)

	deps, err := repo.DependenciesOf(ctx, "launch")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth", "billing"}, deps)

	dependents, err := repo.DependentsOf(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, []string{"launch"}, dependents)
}

func TestItemRepository_ReplaceMovesEdges(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	moved := &core.WorkItem{ID: "login", Title: "Login form", ParentID: "billing"}
	require.NoError(t, repo.PutItems(ctx, moved))

	authChildren, err := repo.ChildrenOf(ctx, "auth")
	require.NoError(t, err)
	assert.Empty(t, authChildren)

	billingChildren, err := repo.ChildrenOf(ctx, "billing")
	require.NoError(t, err)
	assert.Equal(t, []string{"login"}, billingChildren)

	// Replacement keeps the original position.
	items, err := repo.Items(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Login form", items[2].Title)
	assert.Len(t, items, 6)
}

func TestItemRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	require.NoError(t, repo.DeleteItems(ctx, "launch", "auth"))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	dependents, err := repo.DependentsOf(ctx, "billing")
	require.NoError(t, err)
	assert.Empty(t, dependents)

	children, err := repo.ChildrenOf(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, []string{"billing", "old"}, children)
}

func TestItemRepository_Query(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	raw, err := repo.Query(ctx, vector.Query{Vector: []float32{1, 0}, Threshold: 0.5})
	require.NoError(t, err)
	require.IsType(t, &vector.ResultSet{}, raw)

	matches, err := vector.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "auth", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Similarity, 1e-6)
	assert.Equal(t, "login", matches[1].ID)
	assert.InDelta(t, 0.8, matches[1].Similarity, 1e-6)

	t.Run("exclusions and limit", func(t *testing.T) {
		raw, err := repo.Query(ctx, vector.Query{Vector: []float32{1, 0}, Limit: 1, ExcludeIDs: []string{"auth"}})
		require.NoError(t, err)
		matches, err := vector.Normalize(raw)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "login", matches[0].ID)
	})
}

func TestItemRepository_ServesResolver(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.PutItems(ctx, seedItems()...))

	resolver, err := hierarchy.NewResolver(repo)
	require.NoError(t, err)

	path, err := resolver.Resolve(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, "Platform / Authentication / Login form", path.Breadcrumb())
}

func TestItemRepository_Closed(t *testing.T) {
	repo, err := NewMemoryRepository()
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	_, err = repo.Items(context.Background())
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}
