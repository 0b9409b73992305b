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


package placement

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

const (
	thresholdRelaxation = 0.2
	minPoolThreshold    = 0.3
	minPoolSize         = 30
	minFamilySize       = 2
	familyShare         = 0.6
)

// Family score weights.
const (
	weightFrequency   = 0.3
	weightChildren    = 0.4
	weightParentAlign = 0.3
)

// Ranker ranks existing items as placement targets for a query vector.
type Ranker struct {
	searcher    *vector.Searcher
	graph       hierarchy.Graph
	resolver    *hierarchy.Resolver
	parallelism int
	logger      *slog.Logger
}

// NewRanker creates a ranker. A path resolver over graph is created unless
// one is supplied with WithResolver.
func NewRanker(searcher *vector.Searcher, graph hierarchy.Graph, opts ...Option) (*Ranker, error) {
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if graph == nil {
		return nil, ErrGraphRequired
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}

	resolver := o.resolver
	if resolver == nil {
		if resolver, err = hierarchy.NewResolver(graph, hierarchy.WithLogger(o.logger)); err != nil {
			return nil, err
		}
	}

	return &Ranker{
		searcher:    searcher,
		graph:       graph,
		resolver:    resolver,
		parallelism: o.parallelism,
		logger:      o.logger.With("component", "candidate-ranker"),
	}, nil
}

// family accumulates the neighbors that share a parent.
type family struct {
	parentID string
	sims     []float64
	parent    *core.WorkItem
	parentSim float64
	score     float64
}

// Rank returns up to opts.Limit candidates: family candidates first, then
// sibling candidates. Lookup failures shrink the result instead of failing it.
func (r *Ranker) Rank(ctx context.Context, vec []float32, opts RankOptions) []core.Candidate {
	if opts.Limit <= 0 {
		opts.Limit = DefaultCandidateLimit
	}
	if len(vec) == 0 {
		return []core.Candidate{}
	}

	neighbors := r.searcher.Search(ctx, vector.Query{
		Vector:     vec,
		Limit:      max(minPoolSize, 3*opts.Limit),
		Threshold:  math.Max(opts.Threshold-thresholdRelaxation, minPoolThreshold),
		ExcludeIDs: opts.ExcludeIDs,
	})
	if len(neighbors) == 0 {
		return []core.Candidate{}
	}
	poolSize := len(neighbors)

	parentOf := make([]string, len(neighbors))
	byParent := make(map[string]*family)
	var order []*family
	for i, n := range neighbors {
		parentID, err := r.graph.ParentOf(ctx, n.ID)
		if err != nil {
			r.logger.Debug("parent lookup failed", "id", n.ID, "err", err)
			continue
		}
		parentOf[i] = parentID
		if parentID == "" {
			continue
		}
		f, ok := byParent[parentID]
		if !ok {
			f = &family{parentID: parentID}
			byParent[parentID] = f
			order = append(order, f)
		}
		f.sims = append(f.sims, n.Similarity)
	}

	var families []*family
	for _, f := range order {
		if len(f.sims) >= minFamilySize {
			families = append(families, f)
		}
	}
	r.loadParents(ctx, vec, families)

	qualified := make(map[string]struct{}, len(families))
	familyCandidates := make([]core.Candidate, 0, len(families))
	denom := float64(min(10, poolSize))
	for _, f := range families {
		if f.parent == nil || f.parent.Done || slices.Contains(opts.ExcludeIDs, f.parentID) {
			continue
		}
		f.score = weightFrequency*(float64(len(f.sims))/denom) +
			weightChildren*mean(f.sims) +
			weightParentAlign*f.parentSim
		qualified[f.parentID] = struct{}{}
		familyCandidates = append(familyCandidates, core.Candidate{
			ID:          f.parent.ID,
			Title:       f.parent.Title,
			Description: f.parent.Description,
			Similarity:  f.score,
			Family:      true,
		})
	}
	sort.SliceStable(familyCandidates, func(i, j int) bool {
		return familyCandidates[i].Similarity > familyCandidates[j].Similarity
	})

	siblings := make([]core.Candidate, 0)
	for i, n := range neighbors {
		if n.Similarity < opts.Threshold {
			continue
		}
		if _, ok := qualified[parentOf[i]]; ok {
			continue
		}
		if _, ok := qualified[n.ID]; ok {
			continue
		}
		siblings = append(siblings, core.Candidate{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Similarity:  n.Similarity,
		})
	}

	familySlots := int(math.Ceil(familyShare * float64(opts.Limit)))
	siblingSlots := opts.Limit * 4 / 10
	out := append(head(familyCandidates, familySlots), head(siblings, siblingSlots)...)
	out = head(out, opts.Limit)

	for i := range out {
		out[i].HierarchyPath, out[i].Depth = r.resolver.PathOrFallback(ctx, out[i].ID, out[i].Title)
	}

	r.logger.Debug("ranked candidates",
		"pool", poolSize,
		"families", len(familyCandidates),
		"siblings", len(siblings),
		"returned", len(out))
	return out
}

// loadParents fetches each family's parent concurrently and stores the
// parent's direct similarity to vec.
func (r *Ranker) loadParents(ctx context.Context, vec []float32, families []*family) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for _, f := range families {
		g.Go(func() error {
			parent, err := r.graph.Item(gctx, f.parentID)
			if err != nil {
				r.logger.Warn("family parent unavailable", "id", f.parentID, "err", err)
				return nil
			}
			f.parent = parent
			if parent.HasEmbedding() {
				f.parentSim = vector.CosineSimilarity(vec, parent.Embedding)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func head(cs []core.Candidate, n int) []core.Candidate {
	if n < 0 {
		n = 0
	}
	if len(cs) > n {
		cs = cs[:n]
	}
	out := make([]core.Candidate, len(cs))
	copy(out, cs)
	return out
}
