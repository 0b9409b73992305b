// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reembed

import (
	"context"
	"fmt"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/storage"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// BatchProcessor embeds batches of items and writes them back.
type BatchProcessor struct {
	repo     storage.ItemRepository
	embedder ai.Embedder
}

// NewBatchProcessor creates a new batch processor. Each batch is one
// EmbedTexts call; retrying failed requests is up to the embedder.
func NewBatchProcessor(repo storage.ItemRepository, embedder ai.Embedder) *BatchProcessor {
	return &BatchProcessor{
		repo:     repo,
		embedder: embedder,
	}
}

// Process generates embeddings for a batch of items and stores them.
// Vectors are normalized to unit length before storage.
func (bp *BatchProcessor) Process(ctx context.Context, items []*core.WorkItem) error {
	if len(items) == 0 {
		return nil
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Text()
	}

	embeddings, err := bp.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(embeddings) != len(items) {
		return fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCountMismatch, len(items), len(embeddings))
	}

	for i := range items {
		items[i].Embedding = vector.NormalizeVector(embeddings[i])
	}

	if err := bp.repo.PutItems(ctx, items...); err != nil {
		return fmt.Errorf("failed to update items: %w", err)
	}
	return nil
}
