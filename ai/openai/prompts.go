package openai

import (
	"encoding/json"
	"fmt"

	"github.com/exhibit-org/actionbias-sub003/ai"
)

const decisionResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "decision": {"type": "string", "enum": ["add_as_child", "create_parent", "add_as_root"]},
    "parent_id": {"type": ["string", "null"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "reasoning": {"type": "string"},
    "suggested_parent": {
      "type": ["object", "null"],
      "properties": {
        "title": {"type": "string"},
        "description": {"type": "string"}
      },
      "required": ["title", "description"]
    }
  },
  "required": ["decision", "confidence", "reasoning"],
  "additionalProperties": false
}`

const classificationPromptTemplate = `You organize work items into a hierarchy. Decide where a NEW item belongs
among the EXISTING nodes and return the decision as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Decisions:
- add_as_child: an existing node is a natural container for the new item. Set parent_id to that node's id.
- create_parent: the new item and some existing nodes share a theme no current node captures. Propose
  suggested_parent with a short title and a one-sentence description. Leave parent_id null.
- add_as_root: the new item is unrelated to every existing node. Leave parent_id null.

Rules:
- parent_id must be one of the ids listed under EXISTING nodes. Never invent an id.
- Use each node's children to judge what kind of work already lives under it.
- confidence is a number from 0 to 1. If your confidence in add_as_child is below %.2f, prefer
  create_parent or add_as_root.
- reasoning is one or two sentences.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

// buildSystemPrompt creates the system prompt with the schema and threshold embedded.
func buildSystemPrompt(threshold float64) string {
	return fmt.Sprintf(classificationPromptTemplate, decisionResponseSchema, threshold)
}

// buildUserPrompt renders the request as the model input.
func buildUserPrompt(req ai.ClassificationRequest) (string, error) {
	item, err := json.MarshalIndent(req.Item, "", "  ")
	if err != nil {
		return "", err
	}
	nodes := req.Nodes
	if nodes == nil {
		nodes = []ai.NodeSummary{}
	}
	existing, err := json.MarshalIndent(nodes, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("NEW item:\n%s\n\nEXISTING nodes:\n%s", item, existing), nil
}
