// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"math"
)

// LowConfidenceThreshold is the confidence below which a decision is flagged for review.
const LowConfidenceThreshold = 0.5

// ValidateWorkItem validates a WorkItem according to domain rules.
//
// Validation rules:
//   - Title must not be blank
//   - ParentID must not equal ID
//
// NOT validated (supplied by external jobs or callers):
//   - Embedding (can be empty until generated)
//   - ID (empty is valid for items not yet persisted)
func ValidateWorkItem(item *WorkItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidWorkItem)
	}

	if IsBlank(item.Title) {
		return fmt.Errorf("%w: %w", ErrInvalidWorkItem, ErrEmptyTitle)
	}

	if item.ID != "" && item.ParentID == item.ID {
		return fmt.Errorf("%w: %w", ErrInvalidWorkItem, ErrSelfParent)
	}

	return nil
}

// ValidateDecision inspects a decision and returns every issue found.
// Issues are advisory; a non-empty result does not make the decision unusable.
// knownNode reports whether an ID refers to an existing node; nil skips that check.
//
// Flagged:
//   - confidence below LowConfidenceThreshold
//   - AddAsChild without a parent ID, or with a parent ID knownNode rejects
//   - CreateParent without a suggested title or description
func ValidateDecision(decision ClassificationDecision, knownNode func(id string) bool) []error {
	var issues []error

	switch decision.Decision {
	case DecisionAddAsChild, DecisionCreateParent, DecisionAddAsRoot:
	default:
		issues = append(issues, fmt.Errorf("%w: %q", ErrInvalidDecision, decision.Decision))
	}

	if decision.Confidence < LowConfidenceThreshold {
		issues = append(issues, fmt.Errorf("%w: %.2f", ErrLowConfidence, decision.Confidence))
	}

	switch decision.Decision {
	case DecisionAddAsChild:
		if decision.ParentID == "" {
			issues = append(issues, ErrMissingParentID)
		} else if knownNode != nil && !knownNode(decision.ParentID) {
			issues = append(issues, fmt.Errorf("%w: %s", ErrUnknownParent, decision.ParentID))
		}
	case DecisionCreateParent:
		sp := decision.SuggestedParent
		if sp == nil || IsBlank(sp.Title) || IsBlank(sp.Description) {
			issues = append(issues, ErrIncompleteSuggestedParent)
		}
	}

	return issues
}

// ClampUnit clamps v into [0,1]. NaN becomes 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
