package placement

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/ai/mock"
	"github.com/exhibit-org/actionbias-sub003/core"
)

func fixtureNodes() []*core.WorkItem {
	items := fixtureItems()
	nodes := make([]*core.WorkItem, len(items))
	for i := range items {
		nodes[i] = &items[i]
	}
	return nodes
}

func TestNewDecisionEngine(t *testing.T) {
	_, err := NewDecisionEngine(nil)
	assert.Equal(t, ErrClassifierRequired, err)

	_, err = NewDecisionEngine(mock.NewMockClassifier(), WithOracleThreshold(1.5))
	assert.Equal(t, ErrInvalidThreshold, err)
}

func TestDecisionEngine_Classify(t *testing.T) {
	ctx := context.Background()
	item := core.WorkItem{ID: "new", Title: "Fix login redirect"}

	t.Run("request carries nodes, children and threshold", func(t *testing.T) {
		classifier := mock.NewFixedClassifier(core.ClassificationDecision{
			Decision: core.DecisionAddAsChild, ParentID: "auth", Confidence: 0.9, Reasoning: "auth work",
		})
		engine, err := NewDecisionEngine(classifier)
		require.NoError(t, err)

		nodes := append(fixtureNodes(), &core.WorkItem{ID: "new", Title: "Fix login redirect", ParentID: "auth"})
		verdict := engine.Classify(ctx, item, nodes)
		assert.Empty(t, verdict.Issues)
		assert.Equal(t, "auth", verdict.Decision.ParentID)

		req := classifier.LastRequest()
		assert.Equal(t, 1, classifier.CallCount())
		assert.Equal(t, DefaultOracleThreshold, req.ConfidenceThreshold)
		assert.Equal(t, "Fix login redirect", req.Item.Title)
		require.Len(t, req.Nodes, len(fixtureItems()))
		assert.Equal(t, "auth", req.Nodes[1].ID)
		assert.Equal(t, []string{"Login form validation", "Password reset"}, req.Nodes[1].ChildTitles)
	})

	t.Run("oracle failure falls back to root", func(t *testing.T) {
		engine, err := NewDecisionEngine(mock.NewFailingClassifier(errors.New("model timeout")))
		require.NoError(t, err)

		verdict := engine.Classify(ctx, item, fixtureNodes())
		assert.Equal(t, core.DecisionAddAsRoot, verdict.Decision.Decision)
		assert.Empty(t, verdict.Decision.ParentID)
		assert.Zero(t, verdict.Decision.Confidence)
		assert.Contains(t, verdict.Decision.Reasoning, "failed")
		assert.Contains(t, verdict.Decision.Reasoning, "model timeout")
		assert.Nil(t, verdict.Decision.SuggestedParent)
	})

	t.Run("unknown parent is flagged", func(t *testing.T) {
		engine, err := NewDecisionEngine(mock.NewFixedClassifier(core.ClassificationDecision{
			Decision: core.DecisionAddAsChild, ParentID: "ghost", Confidence: 0.8,
		}))
		require.NoError(t, err)

		verdict := engine.Classify(ctx, item, fixtureNodes())
		require.Len(t, verdict.Issues, 1)
		assert.ErrorIs(t, verdict.Issues[0], core.ErrUnknownParent)
		assert.Equal(t, "ghost", verdict.Decision.ParentID)
	})

	t.Run("confidence is clamped and low confidence flagged", func(t *testing.T) {
		engine, err := NewDecisionEngine(mock.NewFixedClassifier(core.ClassificationDecision{
			Decision: core.DecisionAddAsRoot, Confidence: math.NaN(),
		}))
		require.NoError(t, err)

		verdict := engine.Classify(ctx, item, nil)
		assert.Zero(t, verdict.Decision.Confidence)
		require.Len(t, verdict.Issues, 1)
		assert.ErrorIs(t, verdict.Issues[0], core.ErrLowConfidence)
		assert.Len(t, verdict.IssueMessages(), 1)
	})

	t.Run("incomplete suggested parent is flagged", func(t *testing.T) {
		engine, err := NewDecisionEngine(mock.NewFixedClassifier(core.ClassificationDecision{
			Decision: core.DecisionCreateParent, Confidence: 1.7,
		}))
		require.NoError(t, err)

		verdict := engine.Classify(ctx, item, nil)
		assert.Equal(t, 1.0, verdict.Decision.Confidence)
		require.Len(t, verdict.Issues, 1)
		assert.ErrorIs(t, verdict.Issues[0], core.ErrIncompleteSuggestedParent)
	})
}

func TestSummarize(t *testing.T) {
	nodes := []*core.WorkItem{
		{ID: "p", Title: "Parent"},
		nil,
		{ID: "c1", Title: "Child one", ParentID: "p"},
		{ID: "self", Title: "Item being placed", ParentID: "p"},
		{ID: "loop", Title: "Loop", ParentID: "loop"},
	}

	got := Summarize("self", nodes)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Child one"}, got[0].ChildTitles)
	assert.Equal(t, "c1", got[1].ID)
	assert.Empty(t, got[2].ChildTitles)
}
