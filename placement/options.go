package placement

import (
	"context"
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
)

// Corpus lists the existing items the oracle chooses among.
type Corpus interface {
	Items(ctx context.Context) ([]*core.WorkItem, error)
}

// Defaults.
const (
	DefaultCandidateLimit      = 5
	DefaultVectorThreshold     = 0.5
	DefaultOracleThreshold     = 0.7
	DefaultSuggestionLimit     = 5
	DefaultConfidenceThreshold = 40
	DefaultParallelism         = 8
)

// options holds the wiring shared by every constructor in this package.
type options struct {
	logger          *slog.Logger
	resolver        *hierarchy.Resolver
	parallelism     int
	oracleThreshold float64
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		logger:          slog.Default(),
		parallelism:     DefaultParallelism,
		oracleThreshold: DefaultOracleThreshold,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o, nil
}

// Option configures a Ranker, DecisionEngine or Suggester.
type Option func(*options) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithResolver sets the path resolver used to annotate candidates and suggestions.
func WithResolver(resolver *hierarchy.Resolver) Option {
	return func(o *options) error {
		o.resolver = resolver
		return nil
	}
}

// WithParallelism bounds concurrent parent lookups during ranking.
func WithParallelism(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return ErrInvalidParallelism
		}
		o.parallelism = n
		return nil
	}
}

// WithOracleThreshold sets the confidence threshold passed to the oracle.
func WithOracleThreshold(t float64) Option {
	return func(o *options) error {
		if t < 0 || t > 1 {
			return ErrInvalidThreshold
		}
		o.oracleThreshold = t
		return nil
	}
}

// RankOptions controls a single Rank call.
type RankOptions struct {
	Limit      int
	Threshold  float64
	ExcludeIDs []string
}

// DefaultRankOptions returns the standard ranking options.
func DefaultRankOptions() RankOptions {
	return RankOptions{Limit: DefaultCandidateLimit, Threshold: DefaultVectorThreshold}
}

// SuggestOptions controls a single SuggestParents call. Start from
// DefaultSuggestOptions: a zero Limit or ConfidenceThreshold takes its
// default, but a zero UseOracle leaves the oracle off and a zero
// VectorThreshold accepts every neighbor.
type SuggestOptions struct {
	Limit               int     // Maximum suggestions returned
	ConfidenceThreshold int     // Minimum confidence on the 0-100 scale
	VectorThreshold     float64 // Similarity threshold handed to the ranker
	UseOracle           bool    // Consult the classification oracle
}

// DefaultSuggestOptions returns the standard suggestion options.
func DefaultSuggestOptions() SuggestOptions {
	return SuggestOptions{
		Limit:               DefaultSuggestionLimit,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		VectorThreshold:     DefaultVectorThreshold,
		UseOracle:           true,
	}
}
