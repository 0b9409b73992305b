package hierarchy

import (
	"context"
	"fmt"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// Index is an immutable in-memory snapshot of a set of work items.
// Parent lookup is O(1) and child/dependent lists keep input order.
type Index struct {
	items      map[string]*core.WorkItem
	order      []string
	children   map[string][]string
	dependents map[string][]string
}

var _ Relations = (*Index)(nil)

// NewIndex builds an index from items. A later item with a repeated ID
// replaces the earlier one.
func NewIndex(items []core.WorkItem) *Index {
	idx := &Index{
		items:      make(map[string]*core.WorkItem, len(items)),
		order:      make([]string, 0, len(items)),
		children:   make(map[string][]string),
		dependents: make(map[string][]string),
	}
	for i := range items {
		item := items[i]
		if _, seen := idx.items[item.ID]; !seen {
			idx.order = append(idx.order, item.ID)
		}
		idx.items[item.ID] = &item
	}
	for _, id := range idx.order {
		item := idx.items[id]
		if item.ParentID != "" && item.ParentID != id {
			idx.children[item.ParentID] = append(idx.children[item.ParentID], id)
		}
		for _, dep := range item.DependsOn {
			idx.dependents[dep] = append(idx.dependents[dep], id)
		}
	}
	return idx
}

// Len returns the number of distinct items.
func (idx *Index) Len() int {
	return len(idx.order)
}

// Items returns every item in input order.
func (idx *Index) Items(ctx context.Context) ([]*core.WorkItem, error) {
	out := make([]*core.WorkItem, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.items[id])
	}
	return out, nil
}

// Item implements Graph.
func (idx *Index) Item(ctx context.Context, id string) (*core.WorkItem, error) {
	item, ok := idx.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item, nil
}

// ParentOf implements Graph.
func (idx *Index) ParentOf(ctx context.Context, id string) (string, error) {
	item, ok := idx.items[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return item.ParentID, nil
}

// ChildrenOf implements Graph.
func (idx *Index) ChildrenOf(ctx context.Context, id string) ([]string, error) {
	return clone(idx.children[id]), nil
}

// DependenciesOf implements Relations.
func (idx *Index) DependenciesOf(ctx context.Context, id string) ([]string, error) {
	item, ok := idx.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return clone(item.DependsOn), nil
}

// DependentsOf implements Relations.
func (idx *Index) DependentsOf(ctx context.Context, id string) ([]string, error) {
	return clone(idx.dependents[id]), nil
}

func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
