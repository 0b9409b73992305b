package search

import (
	"sort"
	"strings"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/text"
)

// Lexical scores.
const (
	phraseScore       = 1.0
	titleKeywordScore = 0.3
	bodyKeywordScore  = 0.1
	queryMinLength    = 2
)

// fillerWords carry no signal in work-item queries.
var fillerWords = []string{
	"task", "tasks", "todo", "todos", "add", "item", "items", "action", "actions",
	"need", "needs", "please", "thing", "things", "work", "make", "create", "find", "show",
}

// KeywordHit is a lexical match.
type KeywordHit struct {
	Item    *core.WorkItem
	Score   float64
	Matches []string
}

// queryKeywords returns the distinct keywords of query in order.
func queryKeywords(query string) []string {
	tokens := text.Tokenize(query, text.Options{MinLength: queryMinLength, ExtraStopWords: fillerWords})
	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		keywords = append(keywords, tok)
	}
	return keywords
}

// scoreItem scores one item against the normalized query phrase and keywords.
// An exact phrase hit within a single field scores 1.0; each keyword adds 0.3 when found in
// the title and 0.1 when found only in the description or vision.
func scoreItem(item *core.WorkItem, phrase string, keywords []string) KeywordHit {
	title := text.Normalize(item.Title)
	description := text.Normalize(item.Description)
	vision := text.Normalize(item.Vision)
	body := description + " " + vision

	hit := KeywordHit{Item: item, Matches: []string{}}
	if phrase != "" && (strings.Contains(title, phrase) || strings.Contains(description, phrase) || strings.Contains(vision, phrase)) {
		hit.Score += phraseScore
		hit.Matches = append(hit.Matches, phrase)
	}
	for _, kw := range keywords {
		switch {
		case strings.Contains(title, kw):
			hit.Score += titleKeywordScore
		case strings.Contains(body, kw):
			hit.Score += bodyKeywordScore
		default:
			continue
		}
		if kw != phrase {
			hit.Matches = append(hit.Matches, kw)
		}
	}
	return hit
}

// keywordSearch scores every item and returns the best limit hits.
func keywordSearch(items []*core.WorkItem, query string, limit int, includeDone bool) []KeywordHit {
	keywords := queryKeywords(query)
	phrase := text.Normalize(query)
	if len(keywords) == 0 && phrase == "" {
		return []KeywordHit{}
	}

	hits := make([]KeywordHit, 0)
	for _, item := range items {
		if item == nil || (item.Done && !includeDone) {
			continue
		}
		if hit := scoreItem(item, phrase, keywords); hit.Score > 0 {
			hits = append(hits, hit)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}
