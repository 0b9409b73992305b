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
	"io"
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of items embedded per call
	BatchSize int

	// ReportInterval is how often to report progress (number of items)
	ReportInterval int

	// Force re-embeds items that already carry a vector
	Force bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      DefaultBatchSize,
		ReportInterval: 100,
	}
}

// Reembedder embeds every stored item that lacks a vector.
type Reembedder struct {
	repo      storage.ItemRepository
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	logger    *slog.Logger
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(repo storage.ItemRepository, embedder ai.Embedder, config *Config, progress io.Writer) (*Reembedder, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if progress == nil {
		progress = io.Discard
	}

	return &Reembedder{
		repo:      repo,
		config:    config,
		progress:  progress,
		processor: NewBatchProcessor(repo, embedder),
		logger:    slog.Default().With("component", "reembedder"),
	}, nil
}

// Run embeds the pending items and returns how many were written.
func (r *Reembedder) Run(ctx context.Context) (int, error) {
	items, err := r.repo.Items(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list items: %w", err)
	}

	pending := Pending(items, r.config.Force)
	if len(pending) == 0 {
		fmt.Fprintf(r.progress, "No items need embedding (%d stored)\n", len(items))
		return 0, nil
	}

	fmt.Fprintf(r.progress, "Embedding %d of %d items (batch size: %d)\n",
		len(pending), len(items), r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, len(pending), r.config.ReportInterval)
	tracker.Start()

	processed := 0
	err = ForEachBatch(ctx, pending, r.config.BatchSize, func(batch []*core.WorkItem) error {
		if err := r.processor.Process(ctx, batch); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		processed += len(batch)
		tracker.Update(processed)
		return nil
	})
	if err != nil {
		r.logger.Warn("backfill stopped", "processed", processed, "err", err)
		return processed, err
	}

	tracker.Finish()
	r.logger.Debug("backfill complete", "items", processed, "elapsed", tracker.Elapsed())
	return processed, nil
}
