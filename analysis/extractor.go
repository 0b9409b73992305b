package analysis

import (
	"math"
	"sort"
	"strings"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/text"
)

// phraseBoost multiplies every phrase score.
const phraseBoost = 1.5

// Extraction is the scored keyword material of a piece of content.
type Extraction struct {
	Keywords     []core.KeywordTerm `json:"keywords"`      // Top single-word terms
	Phrases      []core.KeywordTerm `json:"phrases"`       // Top multi-word terms
	Combined     []core.KeywordTerm `json:"combined"`      // Phrases plus singles not covered by them
	TotalTokens  int                `json:"total_tokens"`  // Tokens in the stream
	UniqueTokens int                `json:"unique_tokens"` // Distinct tokens in the stream
}

func emptyExtraction() Extraction {
	return Extraction{
		Keywords: []core.KeywordTerm{},
		Phrases:  []core.KeywordTerm{},
		Combined: []core.KeywordTerm{},
	}
}

// Extractor produces scored keywords and phrases from content.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// NewExtractor creates an extractor. Zero-valued limits fall back to defaults.
func NewExtractor(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.Method == "" {
		opts.Method = def.Method
	}
	if opts.MaxKeywords <= 0 {
		opts.MaxKeywords = def.MaxKeywords
	}
	if opts.MaxPhrases <= 0 {
		opts.MaxPhrases = def.MaxPhrases
	}
	if opts.MinPhraseWords <= 1 {
		opts.MinPhraseWords = def.MinPhraseWords
	}
	if opts.MaxPhraseWords < opts.MinPhraseWords {
		opts.MaxPhraseWords = opts.MinPhraseWords
	}
	if opts.MinWordLength <= 0 {
		opts.MinWordLength = def.MinWordLength
	}
	if opts.MinContentLength <= 0 {
		opts.MinContentLength = def.MinContentLength
	}
	return &Extractor{opts: opts}
}

// Options returns the effective options.
func (e *Extractor) Options() Options {
	return e.opts
}

// Tokens returns the token stream of c: title, then description, then vision.
func (e *Extractor) Tokens(c Content) []string {
	topts := text.Options{MinLength: e.opts.MinWordLength, KeepStopWords: e.opts.IncludeStopWords}
	tokens := text.Tokenize(c.Title, topts)
	tokens = append(tokens, text.Tokenize(c.Description, topts)...)
	return append(tokens, text.Tokenize(c.Vision, topts)...)
}

// tally accumulates the occurrences of one term in first-seen order.
type tally struct {
	term      string
	positions []int
}

type streamStats struct {
	total  int
	avgLen float64
}

// Extract scores the keywords and phrases of c.
func (e *Extractor) Extract(c Content) Extraction {
	tokens := e.Tokens(c)
	if len(tokens) == 0 {
		return emptyExtraction()
	}

	var chars int
	for _, tok := range tokens {
		chars += len(tok)
	}
	stats := streamStats{total: len(tokens), avgLen: float64(chars) / float64(len(tokens))}

	singles := countSingles(tokens)
	singleTerms := make([]core.KeywordTerm, 0, len(singles))
	for _, t := range singles {
		singleTerms = append(singleTerms, core.KeywordTerm{
			Term:      t.term,
			Score:     e.score(t, stats),
			Frequency: len(t.positions),
			Type:      core.TermSingle,
			Positions: t.positions,
		})
	}
	sortTerms(singleTerms)

	phraseTerms := make([]core.KeywordTerm, 0)
	for _, t := range e.countPhrases(tokens) {
		words := strings.Count(t.term, " ") + 1
		if len(t.positions) < 2 && words < 3 {
			continue
		}
		phraseTerms = append(phraseTerms, core.KeywordTerm{
			Term:      t.term,
			Score:     e.score(t, stats) * phraseBoost,
			Frequency: len(t.positions),
			Type:      core.TermPhrase,
			Positions: t.positions,
		})
	}
	sortTerms(phraseTerms)

	keywords := capTerms(singleTerms, e.opts.MaxKeywords)
	phrases := capTerms(phraseTerms, e.opts.MaxPhrases)

	return Extraction{
		Keywords:     keywords,
		Phrases:      phrases,
		Combined:     combine(phrases, singleTerms, e.opts.MaxKeywords),
		TotalTokens:  len(tokens),
		UniqueTokens: len(singles),
	}
}

func countSingles(tokens []string) []*tally {
	index := make(map[string]*tally, len(tokens))
	order := make([]*tally, 0, len(tokens))
	for i, tok := range tokens {
		t, ok := index[tok]
		if !ok {
			t = &tally{term: tok}
			index[tok] = t
			order = append(order, t)
		}
		t.positions = append(t.positions, i)
	}
	return order
}

// countPhrases tallies every contiguous token window between the configured
// phrase lengths. Positions are window start indices.
func (e *Extractor) countPhrases(tokens []string) []*tally {
	index := make(map[string]*tally)
	var order []*tally
	for n := e.opts.MinPhraseWords; n <= e.opts.MaxPhraseWords; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			phrase := strings.Join(tokens[i:i+n], " ")
			t, ok := index[phrase]
			if !ok {
				t = &tally{term: phrase}
				index[phrase] = t
				order = append(order, t)
			}
			t.positions = append(t.positions, i)
		}
	}
	return order
}

func (e *Extractor) score(t *tally, s streamStats) float64 {
	switch e.opts.Method {
	case MethodFrequency:
		return float64(len(t.positions))
	case MethodTFIDF:
		return tfidf(t, s)
	default:
		return weighted(t, s)
	}
}

func tfidf(t *tally, s streamStats) float64 {
	freq := float64(len(t.positions))
	tf := freq / float64(s.total)

	lengthBoost := 1.0
	if s.avgLen > 0 {
		lengthBoost = math.Min(float64(len(t.term))/s.avgLen, 2.0)
	}

	penalty := 1.0
	if freq > 3 {
		penalty = math.Log10(freq)
	}
	return tf * lengthBoost / penalty
}

// weighted favors terms that appear early in the stream and longer terms.
func weighted(t *tally, s streamStats) float64 {
	var sum int
	for _, p := range t.positions {
		sum += p
	}
	avgPos := float64(sum) / float64(len(t.positions))
	positionBonus := (1-avgPos/float64(s.total))*0.2 + 1

	lengthBonus := math.Min(math.Max(float64(len(t.term)-2), 1)/8, 1.5)
	return tfidf(t, s) * positionBonus * lengthBonus
}

// combine takes phrases first, then the singles not covered by any kept phrase.
func combine(phrases, singles []core.KeywordTerm, maxSingles int) []core.KeywordTerm {
	covered := make(map[string]struct{})
	combined := make([]core.KeywordTerm, 0, len(phrases)+maxSingles)
	for _, p := range phrases {
		combined = append(combined, p)
		for _, w := range strings.Fields(p.Term) {
			covered[w] = struct{}{}
		}
	}

	added := 0
	for _, s := range singles {
		if added == maxSingles {
			break
		}
		if _, ok := covered[s.Term]; ok {
			continue
		}
		combined = append(combined, s)
		added++
	}
	sortTerms(combined)
	return combined
}

// sortTerms orders by descending score. Ties keep first-seen order.
func sortTerms(terms []core.KeywordTerm) {
	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Score > terms[j].Score
	})
}

func capTerms(terms []core.KeywordTerm, n int) []core.KeywordTerm {
	if len(terms) > n {
		terms = terms[:n]
	}
	out := make([]core.KeywordTerm, len(terms))
	copy(out, terms)
	return out
}
