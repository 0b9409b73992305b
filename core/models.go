package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint generates a deterministic 64-bit hash of text content using BLAKE2b.
// Identical content always produces the same fingerprint.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// WorkItem is a node in the work hierarchy.
// Items form a forest through ParentID; upstream data is not trusted to be acyclic.
type WorkItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Vision      string    `json:"vision,omitempty"` // Desired outcome
	ParentID    string    `json:"parent_id,omitempty"`
	DependsOn   []string  `json:"depends_on,omitempty"` // IDs this item depends on
	Done        bool      `json:"done"`
	Embedding   []float32 `json:"embedding,omitempty"` // Populated by an external embedding job
}

// Text returns title, description and vision joined by newlines, skipping empty fields.
func (w *WorkItem) Text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{w.Title, w.Description, w.Vision} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// HasEmbedding reports whether the item carries a vector.
func (w *WorkItem) HasEmbedding() bool {
	return len(w.Embedding) > 0
}

// TermType distinguishes single words from multi-word phrases.
type TermType string

const (
	TermSingle TermType = "single"
	TermPhrase TermType = "phrase"
)

// KeywordTerm is a scored term produced by keyword extraction.
// Score is method dependent and not bounded to [0,1].
type KeywordTerm struct {
	Term      string   `json:"term"`
	Score     float64  `json:"score"`
	Frequency int      `json:"frequency"`
	Type      TermType `json:"type"`
	Positions []int    `json:"positions"` // Ordinal token positions of each occurrence
}

// Candidate is a potential placement target.
// Similarity is raw cosine similarity for sibling candidates and a composite
// cluster score for family candidates.
type Candidate struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Similarity    float64  `json:"similarity"`
	HierarchyPath []string `json:"hierarchy_path"`
	Depth         int      `json:"depth"`
	Family        bool     `json:"family"` // Inferred from clustering of similar children
}

// Decision is the kind of placement the classification oracle recommends.
type Decision string

const (
	DecisionAddAsChild   Decision = "add_as_child"
	DecisionCreateParent Decision = "create_parent"
	DecisionAddAsRoot    Decision = "add_as_root"
)

// ParseDecision converts a decision string into a Decision.
// Case, underscores, hyphens and spaces are ignored, so "AddAsChild",
// "add_as_child" and "add as child" are equivalent.
func ParseDecision(s string) (Decision, error) {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case '_', '-', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))

	switch folded {
	case "addaschild":
		return DecisionAddAsChild, nil
	case "createparent":
		return DecisionCreateParent, nil
	case "addasroot":
		return DecisionAddAsRoot, nil
	}
	return "", ErrInvalidDecision
}

// SuggestedParent describes a new category node proposed by the oracle.
type SuggestedParent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ClassificationDecision is a structured placement decision.
// ParentID is set only for DecisionAddAsChild; SuggestedParent only for DecisionCreateParent.
type ClassificationDecision struct {
	Decision        Decision         `json:"decision"`
	ParentID        string           `json:"parent_id,omitempty"`
	Confidence      float64          `json:"confidence"` // [0,1]
	Reasoning       string           `json:"reasoning"`
	SuggestedParent *SuggestedParent `json:"suggested_parent,omitempty"`
}

// SuggestionSource identifies which signal produced a Suggestion.
type SuggestionSource string

const (
	SourceVector    SuggestionSource = "vector"
	SourceOracle    SuggestionSource = "oracle"
	SourceCreateNew SuggestionSource = "create_new"
)

// CreateNewID is the sentinel Suggestion ID for a proposed new parent.
const CreateNewID = "CREATE_NEW"

// Suggestion is a ranked parent suggestion for presentation.
type Suggestion struct {
	ID                 string           `json:"id"`
	Title              string           `json:"title"`
	Description        string           `json:"description,omitempty"`
	Confidence         int              `json:"confidence"` // [0,100]
	Source             SuggestionSource `json:"source"`
	Reasoning          string           `json:"reasoning"`
	HierarchyPath      []string         `json:"hierarchy_path"`
	CanCreateNewParent bool             `json:"can_create_new_parent"`
}

// MatchType identifies which search leg found a SearchResult.
type MatchType string

const (
	MatchVector  MatchType = "vector"
	MatchKeyword MatchType = "keyword"
	MatchHybrid  MatchType = "hybrid"
)

// SearchResult is a ranked work item returned by search.
type SearchResult struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Score          float64   `json:"score"`
	MatchType      MatchType `json:"match_type"`
	Similarity     float64   `json:"similarity,omitempty"`
	KeywordMatches []string  `json:"keyword_matches,omitempty"`
	HierarchyPath  []string  `json:"hierarchy_path"`
	Depth          int       `json:"depth"`
	Done           bool      `json:"done"`
}
