package placement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
)

// Verdict is an oracle decision together with the issues the validator found.
// Issues never block the decision.
type Verdict struct {
	Decision core.ClassificationDecision `json:"decision"`
	Issues   []error                     `json:"-"`
}

// IssueMessages returns the issues as strings.
func (v Verdict) IssueMessages() []string {
	msgs := make([]string, 0, len(v.Issues))
	for _, err := range v.Issues {
		msgs = append(msgs, err.Error())
	}
	return msgs
}

// DecisionEngine obtains and validates placement decisions from the oracle.
type DecisionEngine struct {
	classifier ai.Classifier
	threshold  float64
	logger     *slog.Logger
}

// NewDecisionEngine creates a decision engine backed by classifier.
func NewDecisionEngine(classifier ai.Classifier, opts ...Option) (*DecisionEngine, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &DecisionEngine{
		classifier: classifier,
		threshold:  o.oracleThreshold,
		logger:     o.logger.With("component", "decision-engine"),
	}, nil
}

// FallbackDecision is the decision used when the oracle cannot answer.
func FallbackDecision(cause error) core.ClassificationDecision {
	return core.ClassificationDecision{
		Decision:   core.DecisionAddAsRoot,
		Confidence: 0,
		Reasoning:  fmt.Sprintf("classification failed: %v", cause),
	}
}

// Classify makes a single oracle call for item against nodes. Oracle
// failures produce FallbackDecision; the item itself is never offered as a node.
func (e *DecisionEngine) Classify(ctx context.Context, item core.WorkItem, nodes []*core.WorkItem) Verdict {
	summaries := Summarize(item.ID, nodes)
	req := ai.ClassificationRequest{
		Item: ai.NewItem{
			Title:       item.Title,
			Description: item.Description,
			Vision:      item.Vision,
		},
		Nodes:               summaries,
		ConfidenceThreshold: e.threshold,
	}

	decision, err := e.classifier.Classify(ctx, req)
	if err != nil {
		e.logger.Warn("classification failed", "title", item.Title, "err", err)
		return Verdict{Decision: FallbackDecision(err)}
	}

	decision.Confidence = core.ClampUnit(decision.Confidence)

	known := make(map[string]struct{}, len(summaries))
	for _, s := range summaries {
		known[s.ID] = struct{}{}
	}
	issues := core.ValidateDecision(decision, func(id string) bool {
		_, ok := known[id]
		return ok
	})
	for _, issue := range issues {
		e.logger.Warn("decision issue", "decision", decision.Decision, "err", issue)
	}

	return Verdict{Decision: decision, Issues: issues}
}

// Summarize describes nodes to the oracle. Each summary carries the titles
// of the node's direct children found among nodes. The node with excludeID
// is omitted.
func Summarize(excludeID string, nodes []*core.WorkItem) []ai.NodeSummary {
	skip := func(n *core.WorkItem) bool {
		return n == nil || (excludeID != "" && n.ID == excludeID)
	}

	children := make(map[string][]string)
	for _, n := range nodes {
		if skip(n) || n.ParentID == "" || n.ParentID == n.ID {
			continue
		}
		children[n.ParentID] = append(children[n.ParentID], n.Title)
	}

	summaries := make([]ai.NodeSummary, 0, len(nodes))
	for _, n := range nodes {
		if skip(n) {
			continue
		}
		summaries = append(summaries, ai.NodeSummary{
			ID:          n.ID,
			Title:       n.Title,
			Description: n.Description,
			Vision:      n.Vision,
			ChildTitles: children[n.ID],
		})
	}
	return summaries
}
