package analysis

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/exhibit-org/actionbias-sub003/core"
)

const defaultPoolSize = 8

// Analysis is the content analysis of a single item.
type Analysis struct {
	Keywords             []core.KeywordTerm `json:"keywords"`
	Phrases              []core.KeywordTerm `json:"phrases"`
	ImportantTerms       []string           `json:"important_terms"`
	QualityScore         float64            `json:"quality_score"`
	ContentLength        int                `json:"content_length"`
	TokenCount           int                `json:"token_count"`
	UniqueTokenCount     int                `json:"unique_token_count"`
	HasSufficientContent bool               `json:"has_sufficient_content"`
}

// Analyzer computes content quality and similarity.
type Analyzer struct {
	extractor *Extractor
	opts      Options
	pool      *ants.Pool
	poolSize  int
	logger    *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) error {
		a.logger = logger
		return nil
	}
}

// WithOptions replaces the extraction options.
func WithOptions(opts Options) Option {
	return func(a *Analyzer) error {
		if opts.Method != "" {
			if _, err := ParseMethod(string(opts.Method)); err != nil {
				return err
			}
		}
		a.opts = opts
		return nil
	}
}

// WithPoolSize sets the number of workers used by AnalyzeBatch.
func WithPoolSize(size int) Option {
	return func(a *Analyzer) error {
		if size <= 0 {
			return ErrInvalidPoolSize
		}
		a.poolSize = size
		return nil
	}
}

// NewAnalyzer creates an analyzer. Call Release when done.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		opts:     DefaultOptions(),
		poolSize: defaultPoolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.extractor = NewExtractor(a.opts)
	a.opts = a.extractor.Options()
	a.logger = a.logger.With("component", "analyzer")

	pool, err := ants.NewPool(a.poolSize)
	if err != nil {
		return nil, err
	}
	a.pool = pool
	return a, nil
}

// Release stops the batch worker pool.
func (a *Analyzer) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}

// Extractor returns the underlying keyword extractor.
func (a *Analyzer) Extractor() *Extractor {
	return a.extractor
}

// Analyze scores the content of c. Empty content has quality 0.
func (a *Analyzer) Analyze(c Content) Analysis {
	ext := a.extractor.Extract(c)
	length := c.Length()

	important := make([]string, 0, a.opts.MaxKeywords)
	for _, t := range ext.Combined {
		if len(important) == a.opts.MaxKeywords {
			break
		}
		important = append(important, t.Term)
	}

	return Analysis{
		Keywords:             ext.Keywords,
		Phrases:              ext.Phrases,
		ImportantTerms:       important,
		QualityScore:         quality(length, ext),
		ContentLength:        length,
		TokenCount:           ext.TotalTokens,
		UniqueTokenCount:     ext.UniqueTokens,
		HasSufficientContent: length >= a.opts.MinContentLength,
	}
}

// quality blends length, vocabulary diversity, keyword richness and phrase
// richness into [0,1].
func quality(length int, ext Extraction) float64 {
	if ext.TotalTokens == 0 {
		return 0
	}
	lengthScore := math.Min(float64(length)/200, 1)
	diversity := float64(ext.UniqueTokens) / float64(ext.TotalTokens)
	keywordRichness := math.Min(float64(len(ext.Keywords))/8, 1)
	phraseRichness := math.Min(float64(len(ext.Phrases))/4, 1)
	return core.ClampUnit(0.3*lengthScore + 0.3*diversity + 0.2*keywordRichness + 0.2*phraseRichness)
}

// Compare returns the keyword similarity of two contents.
func (a *Analyzer) Compare(x, y Content) Comparison {
	return Similarity(a.extractor.Extract(x), a.extractor.Extract(y))
}

// AnalyzeBatch analyzes contents concurrently. Results keep input order.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, contents []Content) ([]Analysis, error) {
	results := make([]Analysis, len(contents))
	var wg sync.WaitGroup

	for i, c := range contents {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		err := a.pool.Submit(func() {
			defer wg.Done()
			results[i] = a.Analyze(c)
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			a.logger.Error("failed to submit analysis task", "index", i, "error", err)
			return nil, err
		}
	}

	wg.Wait()
	a.logger.Debug("analyzed batch", "count", len(contents))
	return results, nil
}
