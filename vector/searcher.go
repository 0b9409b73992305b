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


package vector

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// Searcher queries an Index and enforces the search contract on whatever
// it returns: threshold filtering, exclusions, done items dropped,
// descending similarity and the result limit.
type Searcher struct {
	index  Index
	logger *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a searcher over index.
func NewSearcher(index Index, opts ...Option) (*Searcher, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	s := &Searcher{index: index, logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "vector-searcher")
	return s, nil
}

// Search returns the matches for q. Index failures and unsupported result
// shapes are logged and yield an empty result.
func (s *Searcher) Search(ctx context.Context, q Query) []Match {
	raw, err := s.index.Query(ctx, q)
	if err != nil {
		s.logger.Warn("vector query failed", "err", err)
		return []Match{}
	}

	matches, err := Normalize(raw)
	if err != nil {
		s.logger.Warn("discarding vector results", "err", err)
		return []Match{}
	}

	filtered := matches[:0]
	for _, m := range matches {
		if math.IsNaN(m.Similarity) || m.Similarity < q.Threshold {
			continue
		}
		if m.Done || q.Excludes(m.ID) {
			continue
		}
		filtered = append(filtered, m)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Similarity > filtered[j].Similarity
	})
	if q.Limit > 0 && len(filtered) > q.Limit {
		filtered = filtered[:q.Limit]
	}
	s.logger.Debug("vector search complete", "matches", len(filtered))
	return filtered
}
