package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// Method selects how single terms are scored.
type Method string

const (
	// MethodFrequency scores a term by its raw occurrence count.
	MethodFrequency Method = "frequency"
	// MethodTFIDF scores a term with a corpus-free TF-IDF approximation.
	MethodTFIDF Method = "tfidf"
	// MethodWeighted scales the TF-IDF approximation by position and length bonuses.
	MethodWeighted Method = "weighted"
)

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodFrequency, MethodTFIDF, MethodWeighted:
		return m, nil
	}
	return "", ErrInvalidMethod
}

const (
	// DefaultMinContentLength is the character count at which content counts as sufficient.
	DefaultMinContentLength = 10

	// PlacementContentThreshold is the character count above which placement
	// analysis runs even when a parent was supplied.
	PlacementContentThreshold = 20
)

// Options configures keyword extraction and analysis.
type Options struct {
	Method           Method
	MaxKeywords      int
	MaxPhrases       int
	MinPhraseWords   int
	MaxPhraseWords   int
	MinWordLength    int
	IncludeStopWords bool
	MinContentLength int
}

// DefaultOptions returns the standard analysis options.
func DefaultOptions() Options {
	return Options{
		Method:           MethodWeighted,
		MaxKeywords:      10,
		MaxPhrases:       5,
		MinPhraseWords:   2,
		MaxPhraseWords:   4,
		MinWordLength:    3,
		MinContentLength: DefaultMinContentLength,
	}
}

// Content is the analyzable text of a work item.
type Content struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Vision      string `json:"vision,omitempty"`
}

// ContentOf extracts the analyzable text of an item.
func ContentOf(item core.WorkItem) Content {
	return Content{Title: item.Title, Description: item.Description, Vision: item.Vision}
}

// Length returns the combined character count of all fields.
func (c Content) Length() int {
	return utf8.RuneCountInString(c.Title) +
		utf8.RuneCountInString(c.Description) +
		utf8.RuneCountInString(c.Vision)
}

// NeedsPlacement reports whether placement analysis is worth running.
// Items without a parent always need it. Items that already have one are
// re-examined only when they carry at least PlacementContentThreshold characters.
func NeedsPlacement(c Content, hasParent bool) bool {
	if !hasParent {
		return true
	}
	return c.Length() >= PlacementContentThreshold
}
