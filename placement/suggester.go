package placement

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/analysis"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
)

// minCreateNewConfidence keeps new-category suggestions visible.
const minCreateNewConfidence = 75

// Suggester merges vector candidates and the oracle decision into parent suggestions.
type Suggester struct {
	embedder ai.Embedder
	ranker   *Ranker
	engine   *DecisionEngine
	corpus   Corpus
	resolver *hierarchy.Resolver
	logger   *slog.Logger
}

// NewSuggester creates a suggester. The ranker's path resolver is reused
// unless one is supplied with WithResolver.
func NewSuggester(embedder ai.Embedder, ranker *Ranker, engine *DecisionEngine, corpus Corpus, opts ...Option) (*Suggester, error) {
	switch {
	case embedder == nil:
		return nil, ErrEmbedderRequired
	case ranker == nil:
		return nil, ErrRankerRequired
	case engine == nil:
		return nil, ErrEngineRequired
	case corpus == nil:
		return nil, ErrCorpusRequired
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	resolver := o.resolver
	if resolver == nil {
		resolver = ranker.resolver
	}
	return &Suggester{
		embedder: embedder,
		ranker:   ranker,
		engine:   engine,
		corpus:   corpus,
		resolver: resolver,
		logger:   o.logger.With("component", "suggester"),
	}, nil
}

// SuggestParents returns ranked parent suggestions for item. The vector
// ranking and the oracle run concurrently; either failing only removes its
// contribution. Items that already have a parent and carry little content
// get no suggestions.
func (s *Suggester) SuggestParents(ctx context.Context, item core.WorkItem, opts SuggestOptions) []core.Suggestion {
	if opts.Limit <= 0 {
		opts.Limit = DefaultSuggestionLimit
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}

	if !analysis.NeedsPlacement(analysis.ContentOf(item), item.ParentID != "") {
		s.logger.Debug("placement not needed", "id", item.ID, "parent_id", item.ParentID)
		return []core.Suggestion{}
	}

	var (
		wg         sync.WaitGroup
		candidates []core.Candidate
		verdict    *Verdict
		nodes      []*core.WorkItem
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		candidates = s.vectorCandidates(ctx, item, opts)
	}()

	if opts.UseOracle {
		wg.Add(1)
		go func() {
			defer wg.Done()
			all, err := s.corpus.Items(ctx)
			if err != nil {
				s.logger.Warn("listing nodes failed", "err", err)
			}
			nodes = all
			v := s.engine.Classify(ctx, item, all)
			verdict = &v
		}()
	}
	wg.Wait()

	return s.merge(ctx, item.ID, candidates, verdict, nodes, opts)
}

func (s *Suggester) vectorCandidates(ctx context.Context, item core.WorkItem, opts SuggestOptions) []core.Candidate {
	vec := item.Embedding
	if len(vec) == 0 {
		var err error
		vec, err = s.embedder.EmbedText(ctx, item.Text())
		if err != nil {
			s.logger.Warn("embedding failed, skipping vector candidates", "err", err)
			return nil
		}
	}

	var exclude []string
	if item.ID != "" {
		exclude = []string{item.ID}
	}
	return s.ranker.Rank(ctx, vec, RankOptions{
		Limit:      opts.Limit,
		Threshold:  opts.VectorThreshold,
		ExcludeIDs: exclude,
	})
}

func (s *Suggester) merge(ctx context.Context, itemID string, candidates []core.Candidate, verdict *Verdict, nodes []*core.WorkItem, opts SuggestOptions) []core.Suggestion {
	suggestions := make([]core.Suggestion, 0, len(candidates)+1)
	seen := make(map[string]struct{})
	add := func(sg core.Suggestion) {
		if _, dup := seen[sg.ID]; dup {
			return
		}
		seen[sg.ID] = struct{}{}
		suggestions = append(suggestions, sg)
	}

	for _, c := range candidates {
		confidence := toConfidence(c.Similarity)
		if confidence < opts.ConfidenceThreshold {
			continue
		}
		add(core.Suggestion{
			ID:            c.ID,
			Title:         c.Title,
			Description:   c.Description,
			Confidence:    confidence,
			Source:        core.SourceVector,
			Reasoning:     candidateReasoning(c),
			HierarchyPath: c.HierarchyPath,
		})
	}

	if verdict != nil {
		d := verdict.Decision
		switch d.Decision {
		case core.DecisionAddAsChild:
			confidence := toConfidence(d.Confidence)
			if _, dup := seen[d.ParentID]; dup || confidence < opts.ConfidenceThreshold {
				break
			}
			if itemID != "" && d.ParentID == itemID {
				s.logger.Warn("oracle chose the item as its own parent", "id", itemID)
				break
			}
			parent := findNode(nodes, d.ParentID)
			if parent == nil {
				s.logger.Warn("oracle chose an unknown parent", "parent_id", d.ParentID)
				break
			}
			path, _ := s.resolver.PathOrFallback(ctx, parent.ID, parent.Title)
			add(core.Suggestion{
				ID:            parent.ID,
				Title:         parent.Title,
				Description:   parent.Description,
				Confidence:    confidence,
				Source:        core.SourceOracle,
				Reasoning:     d.Reasoning,
				HierarchyPath: path,
			})
		case core.DecisionCreateParent:
			title, description := "New parent", ""
			if d.SuggestedParent != nil {
				if !core.IsBlank(d.SuggestedParent.Title) {
					title = d.SuggestedParent.Title
				}
				description = d.SuggestedParent.Description
			}
			add(core.Suggestion{
				ID:                 core.CreateNewID,
				Title:              title,
				Description:        description,
				Confidence:         max(minCreateNewConfidence, toConfidence(d.Confidence)),
				Source:             core.SourceCreateNew,
				Reasoning:          d.Reasoning,
				HierarchyPath:      []string{title},
				CanCreateNewParent: true,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > opts.Limit {
		suggestions = suggestions[:opts.Limit]
	}
	return suggestions
}

// toConfidence maps a [0,1] score onto the 0-100 presentation scale.
func toConfidence(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(score, 1)) * 100))
}

func candidateReasoning(c core.Candidate) string {
	if c.Family {
		return fmt.Sprintf("Parent of several similar items (score %.2f)", c.Similarity)
	}
	return fmt.Sprintf("Similar existing item (similarity %.2f)", c.Similarity)
}

func findNode(nodes []*core.WorkItem, id string) *core.WorkItem {
	for _, n := range nodes {
		if n != nil && n.ID == id {
			return n
		}
	}
	return nil
}
