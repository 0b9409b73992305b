package hierarchy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/core"
)

func sampleItems() []core.WorkItem {
	return []core.WorkItem{
		{ID: "root", Title: "Platform"},
		{ID: "auth", Title: "Authentication", ParentID: "root"},
		{ID: "login", Title: "Fix login bug", ParentID: "auth", DependsOn: []string{"sso"}},
		{ID: "sso", Title: "Add SSO", ParentID: "auth"},
		{ID: "billing", Title: "Billing", ParentID: "root"},
	}
}

func TestIndex(t *testing.T) {
	ctx := context.Background()
	idx := NewIndex(sampleItems())

	assert.Equal(t, 5, idx.Len())

	item, err := idx.Item(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, "Fix login bug", item.Title)

	_, err = idx.Item(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	parent, err := idx.ParentOf(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, "auth", parent)

	parent, err = idx.ParentOf(ctx, "root")
	require.NoError(t, err)
	assert.Empty(t, parent)

	children, err := idx.ChildrenOf(ctx, "auth")
	require.NoError(t, err)
	assert.Equal(t, []string{"login", "sso"}, children)

	children, err = idx.ChildrenOf(ctx, "login")
	require.NoError(t, err)
	assert.Empty(t, children)

	deps, err := idx.DependenciesOf(ctx, "login")
	require.NoError(t, err)
	assert.Equal(t, []string{"sso"}, deps)

	dependents, err := idx.DependentsOf(ctx, "sso")
	require.NoError(t, err)
	assert.Equal(t, []string{"login"}, dependents)

	items, err := idx.Items(ctx)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "root", items[0].ID)
	assert.Equal(t, "billing", items[4].ID)
}

func TestIndex_DuplicateIDReplaces(t *testing.T) {
	idx := NewIndex([]core.WorkItem{
		{ID: "a", Title: "First"},
		{ID: "b", Title: "Other"},
		{ID: "a", Title: "Second"},
	})

	assert.Equal(t, 2, idx.Len())
	item, err := idx.Item(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Second", item.Title)
}

func TestIndex_SelfParentIsNotAChild(t *testing.T) {
	idx := NewIndex([]core.WorkItem{{ID: "a", Title: "Loop", ParentID: "a"}})

	children, err := idx.ChildrenOf(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, children)
}
