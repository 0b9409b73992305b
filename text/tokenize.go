package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWord    = regexp.MustCompile(`[^\w-]+`)
	separators = regexp.MustCompile(`[-_]+`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Options controls tokenization.
type Options struct {
	// MinLength drops tokens with fewer characters. Zero keeps everything.
	MinLength int

	// KeepStopWords disables stop-word filtering.
	KeepStopWords bool

	// ExtraStopWords are filtered in addition to the built-in set.
	ExtraStopWords []string
}

// DefaultOptions returns the options used for content analysis.
func DefaultOptions() Options {
	return Options{MinLength: 3}
}

// Normalize folds s into a lowercase, space-separated string of word characters.
//
// Steps, in order: decompose and strip combining marks, lowercase, replace
// anything that is not a word character or hyphen with a space, turn hyphens
// and underscores into spaces, collapse whitespace, trim.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Transformers carry state, so each call gets its own chain.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = nonWord.ReplaceAllString(folded, " ")
	folded = separators.ReplaceAllString(folded, " ")
	folded = spaces.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// Tokenize normalizes s and splits it into filtered tokens.
// Token order follows the input.
func Tokenize(s string, opts Options) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return []string{}
	}

	var extra map[string]struct{}
	if len(opts.ExtraStopWords) > 0 {
		extra = make(map[string]struct{}, len(opts.ExtraStopWords))
		for _, w := range opts.ExtraStopWords {
			extra[strings.ToLower(w)] = struct{}{}
		}
	}

	words := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) < opts.MinLength {
			continue
		}
		if !opts.KeepStopWords {
			if IsStopWord(word) {
				continue
			}
			if _, ok := extra[word]; ok {
				continue
			}
		}
		tokens = append(tokens, word)
	}
	return tokens
}
