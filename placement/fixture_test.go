package placement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/ai/mock"
	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

var queryVector = []float32{1, 0}

// fixtureItems is a small forest. Against queryVector, the "auth" family
// clusters (two close children) while "session" is a lone close item.
func fixtureItems() []core.WorkItem {
	return []core.WorkItem{
		{ID: "root", Title: "Platform"},
		{ID: "auth", Title: "Authentication", Description: "Identity and access", ParentID: "root", Embedding: []float32{0.9, 0.1}},
		{ID: "login", Title: "Login form validation", ParentID: "auth", Embedding: []float32{0.8, 0.2}},
		{ID: "reset", Title: "Password reset", ParentID: "auth", Embedding: []float32{0.7, 0.3}},
		{ID: "billing", Title: "Billing", Embedding: []float32{0, 1}},
		{ID: "session", Title: "Session timeout", ParentID: "billing", Embedding: []float32{0.6, 0.4}},
		{ID: "invoice", Title: "Invoice export", ParentID: "billing", Embedding: []float32{0.1, 0.9}},
	}
}

type fixture struct {
	index      *hierarchy.Index
	ranker     *Ranker
	embedder   *mock.MockEmbedder
	classifier *mock.MockClassifier
	engine     *DecisionEngine
	suggester  *Suggester
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	items := fixtureItems()
	index := hierarchy.NewIndex(items)

	searcher, err := vector.NewSearcher(vector.NewMemoryIndex(items))
	require.NoError(t, err)
	ranker, err := NewRanker(searcher, index)
	require.NoError(t, err)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return queryVector, nil
	}
	classifier := mock.NewMockClassifier()
	engine, err := NewDecisionEngine(classifier)
	require.NoError(t, err)
	suggester, err := NewSuggester(embedder, ranker, engine, index)
	require.NoError(t, err)

	return &fixture{
		index:      index,
		ranker:     ranker,
		embedder:   embedder,
		classifier: classifier,
		engine:     engine,
		suggester:  suggester,
	}
}

func cos(t *testing.T, id string) float64 {
	t.Helper()
	for _, item := range fixtureItems() {
		if item.ID == id {
			return vector.CosineSimilarity(queryVector, item.Embedding)
		}
	}
	t.Fatalf("unknown fixture item %s", id)
	return 0
}
