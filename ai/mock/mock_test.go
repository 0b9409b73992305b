package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
)

func TestMockEmbedder(t *testing.T) {
	ctx := context.Background()
	m := NewMockEmbedder()

	a, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)

	var norm float64
	for _, v := range a {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-4)

	batch, err := m.EmbedTexts(ctx, []string{"hello", "world"})
	require.NoError(t, err)
	assert.Equal(t, a, batch[0])
	assert.NotEqual(t, a, batch[1])
	assert.Equal(t, 3, m.CallCount())

	m.EmbedTextFunc = func(context.Context, string) ([]float32, error) {
		return nil, errors.New("boom")
	}
	_, err = m.EmbedText(ctx, "x")
	assert.EqualError(t, err, "boom")

	m.Reset()
	assert.Zero(t, m.CallCount())
	_, err = m.EmbedText(ctx, "x")
	assert.NoError(t, err)
}

func TestMockClassifier(t *testing.T) {
	ctx := context.Background()

	m := NewMockClassifier()
	got, err := m.Classify(ctx, ai.ClassificationRequest{Item: ai.NewItem{Title: "x"}})
	require.NoError(t, err)
	assert.Equal(t, core.DecisionAddAsRoot, got.Decision)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, "x", m.LastRequest().Item.Title)

	fixed := NewFixedClassifier(core.ClassificationDecision{Decision: core.DecisionAddAsChild, ParentID: "p"})
	got, err = fixed.Classify(ctx, ai.ClassificationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "p", got.ParentID)

	_, err = NewFailingClassifier(errors.New("down")).Classify(ctx, ai.ClassificationRequest{})
	assert.EqualError(t, err, "down")
}

func TestMockProvider(t *testing.T) {
	p := NewMockProvider()
	var _ ai.AIProvider = p

	assert.Same(t, p.GetMockEmbedder(), p.Embedder())
	assert.Same(t, p.GetMockClassifier(), p.Classifier())
	require.NoError(t, p.Close())
	assert.True(t, p.Closed())
}
