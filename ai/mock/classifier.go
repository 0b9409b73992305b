package mock

import (
	"context"
	"sync"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
)

// MockClassifier is a test double for ai.Classifier.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, returns add_as_root with confidence 0.5.
	ClassifyFunc func(ctx context.Context, req ai.ClassificationRequest) (core.ClassificationDecision, error)

	mu          sync.Mutex
	callCount   int
	lastRequest ai.ClassificationRequest
}

var _ ai.Classifier = (*MockClassifier)(nil)

// NewMockClassifier creates a mock classifier with default behavior.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// NewFixedClassifier returns a mock that always answers with decision.
func NewFixedClassifier(decision core.ClassificationDecision) *MockClassifier {
	return &MockClassifier{
		ClassifyFunc: func(context.Context, ai.ClassificationRequest) (core.ClassificationDecision, error) {
			return decision, nil
		},
	}
}

// NewFailingClassifier returns a mock that always fails with err.
func NewFailingClassifier(err error) *MockClassifier {
	return &MockClassifier{
		ClassifyFunc: func(context.Context, ai.ClassificationRequest) (core.ClassificationDecision, error) {
			return core.ClassificationDecision{}, err
		},
	}
}

// Classify implements ai.Classifier.
func (m *MockClassifier) Classify(ctx context.Context, req ai.ClassificationRequest) (core.ClassificationDecision, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = req
	fn := m.ClassifyFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return core.ClassificationDecision{
		Decision:   core.DecisionAddAsRoot,
		Confidence: 0.5,
		Reasoning:  "mock classifier default",
	}, nil
}

// CallCount returns the number of Classify calls.
func (m *MockClassifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the most recent request.
func (m *MockClassifier) LastRequest() ai.ClassificationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset clears the call count and custom behavior.
func (m *MockClassifier) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = ai.ClassificationRequest{}
	m.ClassifyFunc = nil
}
