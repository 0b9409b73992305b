package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/exhibit-org/actionbias-sub003/ai"
	"github.com/exhibit-org/actionbias-sub003/core"
)

// ErrNoChoices is returned when the model response contains no choices.
var ErrNoChoices = errors.New("model returned no choices")

// Classifier implements ai.Classifier using an OpenAI-compatible chat API.
type Classifier struct {
	client llms.Model
	logger *slog.Logger
}

// decisionResponse matches the JSON object the model is asked to produce.
type decisionResponse struct {
	Decision        string                `json:"decision"`
	ParentID        *string               `json:"parent_id"`
	Confidence      float64               `json:"confidence"`
	Reasoning       string                `json:"reasoning"`
	SuggestedParent *core.SuggestedParent `json:"suggested_parent"`
}

// newClassifier is an internal constructor that returns the concrete type.
func newClassifier(config *ai.Config) (*Classifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}
	return newClassifierWithModel(client), nil
}

func newClassifierWithModel(model llms.Model) *Classifier {
	return &Classifier{
		client: model,
		logger: slog.Default().With("component", "openai-classifier"),
	}
}

// NewClassifier creates a new placement classifier using the provided configuration.
func NewClassifier(config *ai.Config) (ai.Classifier, error) {
	return newClassifier(config)
}

// Classify asks the model for a single placement decision. There is no retry;
// a malformed response is returned as an error.
func (c *Classifier) Classify(ctx context.Context, req ai.ClassificationRequest) (core.ClassificationDecision, error) {
	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return core.ClassificationDecision{}, fmt.Errorf("build prompt: %w", err)
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(buildSystemPrompt(req.ConfidenceThreshold))},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		c.logger.Error("failed to generate content", "err", err)
		return core.ClassificationDecision{}, err
	}
	if len(response.Choices) < 1 {
		return core.ClassificationDecision{}, ErrNoChoices
	}

	decision, err := parseDecision(response.Choices[0].Content)
	if err != nil {
		c.logger.Warn("error parsing classifier response", "response", response.Choices[0].Content, "err", err)
		return core.ClassificationDecision{}, err
	}

	c.logger.Debug("classified item",
		"decision", decision.Decision,
		"parent_id", decision.ParentID,
		"confidence", decision.Confidence)
	return decision, nil
}

// parseDecision converts raw model output into a decision.
func parseDecision(raw string) (core.ClassificationDecision, error) {
	text := repairJSON(stripCodeFences(raw))

	var resp decisionResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return core.ClassificationDecision{}, fmt.Errorf("decode decision: %w", err)
	}

	kind, err := core.ParseDecision(resp.Decision)
	if err != nil {
		return core.ClassificationDecision{}, fmt.Errorf("%w: %q", err, resp.Decision)
	}

	decision := core.ClassificationDecision{
		Decision:   kind,
		Confidence: resp.Confidence,
		Reasoning:  strings.TrimSpace(resp.Reasoning),
	}
	if resp.ParentID != nil {
		decision.ParentID = strings.TrimSpace(*resp.ParentID)
	}
	if kind == core.DecisionCreateParent {
		decision.SuggestedParent = resp.SuggestedParent
	}
	if kind != core.DecisionAddAsChild {
		decision.ParentID = ""
	}
	return decision, nil
}
