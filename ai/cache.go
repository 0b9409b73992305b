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


package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// CachingEmbedder wraps an Embedder with a bounded in-memory cache keyed by
// the fingerprint of the input text.
type CachingEmbedder struct {
	next   Embedder
	cache  *ristretto.Cache[uint64, []float32]
	logger *slog.Logger
}

var _ Embedder = (*CachingEmbedder)(nil)

// NewCachingEmbedder wraps next with a cache holding up to size vectors.
func NewCachingEmbedder(next Embedder, size int) (*CachingEmbedder, error) {
	if next == nil {
		return nil, ErrEmbedderRequired
	}
	if size <= 0 {
		return nil, fmt.Errorf("embedding cache size must be positive, got %d", size)
	}

	cache, err := ristretto.NewCache(&ristretto.Config[uint64, []float32]{
		NumCounters:        int64(size) * 10,
		MaxCost:            int64(size),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &CachingEmbedder{
		next:   next,
		cache:  cache,
		logger: slog.Default().With("component", "embedding-cache"),
	}, nil
}

// EmbedText implements Embedder.
func (c *CachingEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := core.Fingerprint(text)
	if vec, ok := c.cache.Get(key); ok {
		return vec, nil
	}

	vec, err := c.next.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}
	c.store(key, vec)
	c.cache.Wait()
	return vec, nil
}

// EmbedTexts implements Embedder. Only cache misses reach the wrapped embedder.
func (c *CachingEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]uint64, len(texts))
	var missIdx []int
	var missTexts []string

	for i, text := range texts {
		keys[i] = core.Fingerprint(text)
		if vec, ok := c.cache.Get(keys[i]); ok {
			out[i] = vec
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return out, nil
	}
	c.logger.Debug("embedding cache misses", "hits", len(texts)-len(missTexts), "misses", len(missTexts))

	vecs, err := c.next.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = vecs[j]
		c.store(keys[i], vecs[j])
	}
	c.cache.Wait()
	return out, nil
}

func (c *CachingEmbedder) store(key uint64, vec []float32) {
	if len(vec) == 0 {
		return
	}
	c.cache.Set(key, vec, 1)
}

// Close releases the cache.
func (c *CachingEmbedder) Close() {
	c.cache.Close()
}
