package vector

import (
	"context"
	"sort"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// MemoryIndex is a brute-force Index over a snapshot of items.
// Items without an embedding are never matched.
type MemoryIndex struct {
	items []core.WorkItem
}

var _ Index = (*MemoryIndex)(nil)

// NewMemoryIndex creates an index over items.
func NewMemoryIndex(items []core.WorkItem) *MemoryIndex {
	indexed := make([]core.WorkItem, 0, len(items))
	for _, item := range items {
		if item.HasEmbedding() {
			indexed = append(indexed, item)
		}
	}
	return &MemoryIndex{items: indexed}
}

// Query implements Index. The result is a []Match.
func (m *MemoryIndex) Query(ctx context.Context, q Query) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := make([]Match, 0)
	for _, item := range m.items {
		if item.Done || q.Excludes(item.ID) {
			continue
		}
		sim := CosineSimilarity(q.Vector, item.Embedding)
		if sim < q.Threshold {
			continue
		}
		matches = append(matches, Match{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Similarity:  sim,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}
