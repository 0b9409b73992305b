package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/exhibit-org/actionbias-sub003/analysis"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func breadcrumb(path []string) string {
	return strings.Join(path, hierarchy.DefaultSeparator)
}

func writeSuggestions(w io.Writer, suggestions []core.Suggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "No suggestions")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONFIDENCE\tSOURCE\tID\tPATH")
	for _, s := range suggestions {
		path := breadcrumb(s.HierarchyPath)
		if s.ID == core.CreateNewID {
			path = "new: " + s.Title
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Confidence, s.Source, s.ID, path)
	}
	return tw.Flush()
}

func writeResults(w io.Writer, results []core.SearchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tMATCH\tID\tPATH")
	for _, r := range results {
		path := breadcrumb(r.HierarchyPath)
		if r.Done {
			path += " (done)"
		}
		fmt.Fprintf(tw, "%.2f\t%s\t%s\t%s\n", r.Score, r.MatchType, r.ID, path)
	}
	return tw.Flush()
}

func writeAnalysis(w io.Writer, a analysis.Analysis) error {
	fmt.Fprintf(w, "Quality:    %.2f\n", a.QualityScore)
	fmt.Fprintf(w, "Length:     %d characters, %d tokens (%d unique)\n", a.ContentLength, a.TokenCount, a.UniqueTokenCount)
	fmt.Fprintf(w, "Sufficient: %t\n", a.HasSufficientContent)
	fmt.Fprintf(w, "Terms:      %s\n", strings.Join(a.ImportantTerms, ", "))
	_, err := fmt.Fprintf(w, "Phrases:    %s\n", strings.Join(terms(a.Phrases), ", "))
	return err
}

func writeComparison(w io.Writer, cmp analysis.Comparison) error {
	fmt.Fprintf(w, "Similarity:       %.3f\n", cmp.Similarity)
	fmt.Fprintf(w, "Weighted overlap: %.3f\n", cmp.WeightedOverlap)
	fmt.Fprintf(w, "Jaccard:          %.3f\n", cmp.Jaccard)
	fmt.Fprintf(w, "Phrase overlap:   %.3f\n", cmp.PhraseOverlap)
	_, err := fmt.Fprintf(w, "Shared terms:     %s\n", strings.Join(cmp.SharedTerms, ", "))
	return err
}

func terms(kw []core.KeywordTerm) []string {
	out := make([]string, len(kw))
	for i, k := range kw {
		out[i] = k.Term
	}
	return out
}
