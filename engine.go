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


package actionbias

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/ai/openai"
	"github.com/exhibit-org/actionbias-sub003/analysis"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/placement"
	"github.com/exhibit-org/actionbias-sub003/reembed"
	"github.com/exhibit-org/actionbias-sub003/search"
	"github.com/exhibit-org/actionbias-sub003/storage"
	"github.com/exhibit-org/actionbias-sub003/storage/badger"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// Engine wires the item store, the AI provider and the placement, search
// and analysis components into a single facade.
type Engine struct {
	repo         storage.ItemRepository
	provider     ai.AIProvider
	ownsProvider bool
	analyzer     *analysis.Analyzer
	decisions    *placement.DecisionEngine
	suggester    *placement.Suggester
	searcher     *search.Searcher
	logger       *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig        *ai.Config
	provider        ai.AIProvider
	inMemory        bool
	logger          *slog.Logger
	analysisOptions analysis.Options
}

// WithAIConfig sets the configuration for the default OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies an AI provider. The engine does not close it.
func WithProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemory keeps all items in a volatile store; the path is ignored.
func WithInMemory() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithAnalysisOptions sets the keyword extraction options.
func WithAnalysisOptions(opts analysis.Options) EngineOption {
	return func(o *engineOptions) {
		o.analysisOptions = opts
	}
}

// NewEngine opens the item store at filePath and builds every component on top of it.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig:        ai.DefaultConfig(),
		analysisOptions: analysis.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	var (
		repo *badger.ItemRepository
		err  error
	)
	if options.inMemory {
		repo, err = badger.OpenInMemory(logger)
	} else {
		repo, err = badger.Open(filePath, logger)
	}
	if err != nil {
		return nil, err
	}

	e := &Engine{
		repo:     repo,
		provider: options.provider,
		logger:   logger.With("component", "engine"),
	}
	if e.provider == nil {
		e.provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			repo.Close()
			return nil, err
		}
		e.ownsProvider = true
	}

	if err := e.build(options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) build(options *engineOptions) error {
	logger := options.logger

	analyzer, err := analysis.NewAnalyzer(analysis.WithLogger(logger), analysis.WithOptions(options.analysisOptions))
	if err != nil {
		return err
	}
	e.analyzer = analyzer

	resolver, err := hierarchy.NewResolver(e.repo, hierarchy.WithLogger(logger))
	if err != nil {
		return err
	}
	vectors, err := vector.NewSearcher(e.repo, vector.WithLogger(logger))
	if err != nil {
		return err
	}

	ranker, err := placement.NewRanker(vectors, e.repo,
		placement.WithLogger(logger), placement.WithResolver(resolver))
	if err != nil {
		return err
	}
	e.decisions, err = placement.NewDecisionEngine(e.provider.Classifier(), placement.WithLogger(logger))
	if err != nil {
		return err
	}
	e.suggester, err = placement.NewSuggester(e.provider.Embedder(), ranker, e.decisions, e.repo,
		placement.WithLogger(logger), placement.WithResolver(resolver))
	if err != nil {
		return err
	}

	e.searcher, err = search.NewSearcher(e.provider.Embedder(), vectors, e.repo, e.repo,
		search.WithLogger(logger), search.WithResolver(resolver))
	return err
}

// Close releases the analyzer, the provider (when the engine created it)
// and the item store.
func (e *Engine) Close() error {
	if e.analyzer != nil {
		e.analyzer.Release()
	}

	var errs []error
	if e.ownsProvider && e.provider != nil {
		if err := e.provider.Close(); err != nil {
			e.logger.Error("error closing AI provider", "err", err)
			errs = append(errs, err)
		}
	}
	if err := e.repo.Close(); err != nil {
		e.logger.Error("error closing item store", "err", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Repository returns the underlying item store.
func (e *Engine) Repository() storage.ItemRepository {
	return e.repo
}

// SuggestParents returns ranked parent suggestions for item.
func (e *Engine) SuggestParents(ctx context.Context, item core.WorkItem, opts placement.SuggestOptions) []core.Suggestion {
	return e.suggester.SuggestParents(ctx, item, opts)
}

// SearchActions runs a hybrid search over the stored items.
func (e *Engine) SearchActions(ctx context.Context, query string, opts search.Options) []core.SearchResult {
	return e.searcher.SearchActions(ctx, query, opts)
}

// SearchActionsWithMonitor runs a hybrid search reporting each stage to monitor.
func (e *Engine) SearchActionsWithMonitor(ctx context.Context, query string, opts search.Options, monitor search.SearchMonitor) []core.SearchResult {
	return e.searcher.SearchActionsWithMonitor(ctx, query, opts, monitor)
}

// FindBestParent asks the classification oracle where item belongs among
// existing. A nil existing classifies against every stored item.
func (e *Engine) FindBestParent(ctx context.Context, item core.WorkItem, existing []*core.WorkItem) placement.Verdict {
	if existing == nil {
		all, err := e.repo.Items(ctx)
		if err != nil {
			e.logger.Warn("listing items failed", "err", err)
			return placement.Verdict{Decision: placement.FallbackDecision(err)}
		}
		existing = all
	}
	return e.decisions.Classify(ctx, item, existing)
}

// AnalyzeAction extracts keywords and a quality score from item.
func (e *Engine) AnalyzeAction(item core.WorkItem) analysis.Analysis {
	return e.analyzer.Analyze(analysis.ContentOf(item))
}

// AnalyzeActions analyzes items concurrently, preserving order.
func (e *Engine) AnalyzeActions(ctx context.Context, items []core.WorkItem) ([]analysis.Analysis, error) {
	contents := make([]analysis.Content, len(items))
	for i, item := range items {
		contents[i] = analysis.ContentOf(item)
	}
	return e.analyzer.AnalyzeBatch(ctx, contents)
}

// CompareActions scores the content similarity of a and b.
func (e *Engine) CompareActions(a, b core.WorkItem) analysis.Comparison {
	return e.analyzer.Compare(analysis.ContentOf(a), analysis.ContentOf(b))
}

// NewReembedder returns a backfill job embedding stored items with the
// engine's embedder.
func (e *Engine) NewReembedder(config *reembed.Config, progress io.Writer) (*reembed.Reembedder, error) {
	return reembed.NewReembedder(e.repo, e.provider.Embedder(), config, progress)
}
