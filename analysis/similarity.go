package analysis

import (
	"math"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// Similarity weights.
const (
	weightOverlap = 0.5
	weightJaccard = 0.3
	weightPhrase  = 0.2
)

// Comparison breaks down the keyword similarity of two extractions.
type Comparison struct {
	Similarity      float64  `json:"similarity"`
	WeightedOverlap float64  `json:"weighted_overlap"`
	Jaccard         float64  `json:"jaccard"`
	PhraseOverlap   float64  `json:"phrase_overlap"`
	SharedTerms     []string `json:"shared_terms"`
	SharedPhrases   []string `json:"shared_phrases"`
}

// Similarity compares two extractions. The result is in [0,1] and is 1 for
// identical content that yields at least one phrase.
func Similarity(a, b Extraction) Comparison {
	cmp := Comparison{SharedTerms: []string{}, SharedPhrases: []string{}}

	cmp.WeightedOverlap = weightedOverlap(scoredTerms(a), scoredTerms(b))
	cmp.Jaccard, cmp.SharedTerms = jaccard(a.Keywords, b.Keywords)
	cmp.PhraseOverlap, cmp.SharedPhrases = phraseOverlap(a.Phrases, b.Phrases)

	sim := weightOverlap*cmp.WeightedOverlap + weightJaccard*cmp.Jaccard + weightPhrase*cmp.PhraseOverlap
	cmp.Similarity = core.ClampUnit(math.Min(sim, 1))
	return cmp
}

func scoredTerms(e Extraction) []core.KeywordTerm {
	terms := make([]core.KeywordTerm, 0, len(e.Keywords)+len(e.Phrases))
	terms = append(terms, e.Keywords...)
	return append(terms, e.Phrases...)
}

// weightedOverlap sums the geometric mean of shared term scores and divides
// by the mean of both sides' total score.
func weightedOverlap(a, b []core.KeywordTerm) float64 {
	bScores := make(map[string]float64, len(b))
	var totalB float64
	for _, t := range b {
		bScores[t.Term] = t.Score
		totalB += t.Score
	}

	var totalA, shared float64
	for _, t := range a {
		totalA += t.Score
		if sb, ok := bScores[t.Term]; ok {
			shared += math.Sqrt(math.Max(t.Score*sb, 0))
		}
	}

	avgTotal := (totalA + totalB) / 2
	if avgTotal <= 0 {
		return 0
	}
	return core.ClampUnit(shared / avgTotal)
}

func termSet(terms []core.KeywordTerm) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t.Term] = struct{}{}
	}
	return set
}

// intersect returns the terms of a present in b, in a's order.
func intersect(a, b []core.KeywordTerm) []string {
	inB := termSet(b)
	shared := []string{}
	for _, t := range a {
		if _, ok := inB[t.Term]; ok {
			shared = append(shared, t.Term)
		}
	}
	return shared
}

func jaccard(a, b []core.KeywordTerm) (float64, []string) {
	shared := intersect(a, b)
	union := len(termSet(a)) + len(termSet(b)) - len(shared)
	if union == 0 {
		return 0, shared
	}
	return float64(len(shared)) / float64(union), shared
}

func phraseOverlap(a, b []core.KeywordTerm) (float64, []string) {
	shared := intersect(a, b)
	larger := max(len(a), len(b))
	if larger == 0 {
		return 0, shared
	}
	return float64(len(shared)) / float64(larger), shared
}
