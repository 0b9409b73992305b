package reembed

import (
	"context"

	"github.com/exhibit-org/actionbias-sub003/core"
)

const (
	// DefaultBatchSize is the default number of items embedded per call
	DefaultBatchSize = 32
)

// ForEachBatch calls fn with consecutive slices of at most size items.
// Iteration stops on the first error from fn. Context cancellation is
// checked before each batch.
func ForEachBatch(ctx context.Context, items []*core.WorkItem, size int, fn func([]*core.WorkItem) error) error {
	if size <= 0 {
		size = DefaultBatchSize
	}

	for i := 0; i < len(items); i += size {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(i+size, len(items))
		if err := fn(items[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// Pending returns the items that need an embedding. With force set every
// item is returned.
func Pending(items []*core.WorkItem, force bool) []*core.WorkItem {
	if force {
		return items
	}
	pending := make([]*core.WorkItem, 0, len(items))
	for _, item := range items {
		if !item.HasEmbedding() {
			pending = append(pending, item)
		}
	}
	return pending
}
