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


package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// Corpus lists the items the lexical leg scans.
type Corpus interface {
	Items(ctx context.Context) ([]*core.WorkItem, error)
}

// hybridBoost multiplies the score of items found by both legs.
const hybridBoost = 1.2

// maxRelatedPerKind caps siblings and children on the identifier fast path.
const maxRelatedPerKind = 5

// Relation labels and scores for the identifier fast path.
const (
	RelationSelf       = "self"
	RelationDependent  = "dependent"
	RelationDependency = "dependency"
	RelationParent     = "parent"
	RelationSibling    = "sibling"
	RelationChild      = "child"
)

var relationScores = map[string]float64{
	RelationSelf:       1.0,
	RelationDependent:  0.9,
	RelationDependency: 0.8,
	RelationParent:     0.7,
	RelationSibling:    0.6,
	RelationChild:      0.5,
}

// Options controls a single search.
type Options struct {
	Limit         int
	Threshold     float64 // Minimum vector similarity
	IncludeDone   bool    // Let the lexical leg return completed items
	VectorSearch  bool
	KeywordSearch bool
}

// DefaultOptions returns the standard search options.
func DefaultOptions() Options {
	return Options{
		Limit:         10,
		Threshold:     0.5,
		VectorSearch:  true,
		KeywordSearch: true,
	}
}

// Searcher performs hybrid search over work items.
type Searcher struct {
	embedder  ai.Embedder
	vectors   *vector.Searcher
	relations hierarchy.Relations
	corpus    Corpus
	resolver  *hierarchy.Resolver
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithResolver sets the path resolver. Default resolves over the relations graph.
func WithResolver(resolver *hierarchy.Resolver) Option {
	return func(s *Searcher) error {
		s.resolver = resolver
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	embedder ai.Embedder,
	vectors *vector.Searcher,
	relations hierarchy.Relations,
	corpus Corpus,
	opts ...Option,
) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorSearcherRequired
	}
	if relations == nil {
		return nil, ErrGraphRequired
	}
	if corpus == nil {
		return nil, ErrCorpusRequired
	}

	s := &Searcher{
		embedder:  embedder,
		vectors:   vectors,
		relations: relations,
		corpus:    corpus,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.resolver == nil {
		resolver, err := hierarchy.NewResolver(relations, hierarchy.WithLogger(s.logger))
		if err != nil {
			return nil, err
		}
		s.resolver = resolver
	}
	s.logger = s.logger.With("component", "searcher")
	return s, nil
}

// IsIdentifier reports whether query is a canonical UUID.
func IsIdentifier(query string) bool {
	if len(query) != 36 {
		return false
	}
	_, err := uuid.Parse(query)
	return err == nil
}

// SearchActions searches for work items matching query.
func (s *Searcher) SearchActions(ctx context.Context, query string, opts Options) []core.SearchResult {
	return s.SearchActionsWithMonitor(ctx, query, opts, nil)
}

// SearchActionsWithMonitor searches for work items with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (s *Searcher) SearchActionsWithMonitor(ctx context.Context, query string, opts Options, monitor SearchMonitor) []core.SearchResult {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultOptions().Limit
	}

	monitor.Start(query)

	var results []core.SearchResult
	if IsIdentifier(query) {
		results = s.relatedTo(ctx, query, monitor)
	} else {
		results = s.hybrid(ctx, query, opts, monitor)
	}

	for i := range results {
		results[i].HierarchyPath, results[i].Depth = s.resolver.PathOrFallback(ctx, results[i].ID, results[i].Title)
	}
	monitor.Finish(results)
	return results
}

// relatedTo returns the item with id and its direct relations at fixed scores.
func (s *Searcher) relatedTo(ctx context.Context, id string, monitor SearchMonitor) []core.SearchResult {
	item, err := s.relations.Item(ctx, id)
	monitor.IdentifierLookup(id, err == nil)
	if err != nil {
		s.logger.Debug("identifier not found", "id", id, "err", err)
		return []core.SearchResult{}
	}

	results := []core.SearchResult{relationResult(item, RelationSelf)}
	seen := map[string]struct{}{item.ID: {}}
	add := func(relation string, ids []string, limit int) {
		added := 0
		for _, rid := range ids {
			if limit > 0 && added == limit {
				return
			}
			if _, dup := seen[rid]; dup {
				continue
			}
			related, err := s.relations.Item(ctx, rid)
			if err != nil {
				s.logger.Debug("related item missing", "id", rid, "relation", relation, "err", err)
				continue
			}
			seen[rid] = struct{}{}
			results = append(results, relationResult(related, relation))
			added++
		}
	}

	lookup := func(relation string, fn func(context.Context, string) ([]string, error)) []string {
		ids, err := fn(ctx, id)
		if err != nil {
			s.logger.Warn("relation lookup failed", "id", id, "relation", relation, "err", err)
			return nil
		}
		return ids
	}

	add(RelationDependent, lookup(RelationDependent, s.relations.DependentsOf), 0)
	add(RelationDependency, lookup(RelationDependency, s.relations.DependenciesOf), 0)

	parentID, err := s.relations.ParentOf(ctx, id)
	if err != nil {
		s.logger.Warn("parent lookup failed", "id", id, "err", err)
	}
	if parentID != "" {
		add(RelationParent, []string{parentID}, 0)
		add(RelationSibling, lookup(RelationSibling, func(ctx context.Context, _ string) ([]string, error) {
			return s.relations.ChildrenOf(ctx, parentID)
		}), maxRelatedPerKind)
	}
	add(RelationChild, lookup(RelationChild, s.relations.ChildrenOf), maxRelatedPerKind)

	return results
}

func relationResult(item *core.WorkItem, relation string) core.SearchResult {
	return core.SearchResult{
		ID:             item.ID,
		Title:          item.Title,
		Score:          relationScores[relation],
		MatchType:      core.MatchKeyword,
		KeywordMatches: []string{relation},
		Done:           item.Done,
	}
}

// hybrid runs the vector and lexical legs concurrently and merges them.
func (s *Searcher) hybrid(ctx context.Context, query string, opts Options, monitor SearchMonitor) []core.SearchResult {
	var (
		wg      sync.WaitGroup
		matches []vector.Match
		hits    []KeywordHit
	)
	legLimit := 2 * opts.Limit

	if opts.VectorSearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			matches = s.vectorLeg(ctx, query, legLimit, opts.Threshold)
		}()
	}
	if opts.KeywordSearch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hits = s.keywordLeg(ctx, query, legLimit, opts.IncludeDone)
		}()
	}
	wg.Wait()

	if opts.VectorSearch {
		monitor.AfterVectorSearch(matches)
	}
	if opts.KeywordSearch {
		monitor.AfterKeywordSearch(hits)
	}

	results := merge(matches, hits, monitor)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

func (s *Searcher) vectorLeg(ctx context.Context, query string, limit int, threshold float64) []vector.Match {
	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("vector leg failed", "err", err)
		return []vector.Match{}
	}
	return s.vectors.Search(ctx, vector.Query{Vector: vec, Limit: limit, Threshold: threshold})
}

func (s *Searcher) keywordLeg(ctx context.Context, query string, limit int, includeDone bool) []KeywordHit {
	items, err := s.corpus.Items(ctx)
	if err != nil {
		s.logger.Warn("keyword leg failed", "err", err)
		return []KeywordHit{}
	}
	return keywordSearch(items, query, limit, includeDone)
}

// merge combines both legs by ID. Items in both become hybrid matches scored
// max(vector, keyword) times hybridBoost. Output is sorted by descending score
// with ties in first-seen order, vector results first.
func merge(matches []vector.Match, hits []KeywordHit, monitor SearchMonitor) []core.SearchResult {
	results := make([]core.SearchResult, 0, len(matches)+len(hits))
	index := make(map[string]int, len(matches)+len(hits))

	for _, m := range matches {
		if _, dup := index[m.ID]; dup {
			continue
		}
		index[m.ID] = len(results)
		results = append(results, core.SearchResult{
			ID:         m.ID,
			Title:      m.Title,
			Score:      m.Similarity,
			MatchType:  core.MatchVector,
			Similarity: m.Similarity,
			Done:       m.Done,
		})
	}

	for _, h := range hits {
		if i, ok := index[h.Item.ID]; ok {
			r := &results[i]
			if r.MatchType == core.MatchHybrid {
				continue
			}
			monitor.HybridHit(r.ID, r.Similarity, h.Score)
			r.Score = math.Max(r.Similarity, h.Score) * hybridBoost
			r.MatchType = core.MatchHybrid
			r.KeywordMatches = h.Matches
			continue
		}
		index[h.Item.ID] = len(results)
		results = append(results, core.SearchResult{
			ID:             h.Item.ID,
			Title:          h.Item.Title,
			Score:          h.Score,
			MatchType:      core.MatchKeyword,
			KeywordMatches: h.Matches,
			Done:           h.Item.Done,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
