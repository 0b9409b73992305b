package text

// stopWords are common English function words carrying no topical signal.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "all": {}, "also": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "but": {},
	"by": {}, "can": {}, "could": {}, "do": {}, "does": {}, "for": {}, "from": {},
	"had": {}, "has": {}, "have": {}, "he": {}, "her": {}, "his": {}, "how": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {},
	"more": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {}, "out": {},
	"should": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "to": {}, "was": {}, "we": {}, "were": {}, "what": {},
	"when": {}, "which": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// IsStopWord reports whether word (already lowercased) is in the built-in stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}
