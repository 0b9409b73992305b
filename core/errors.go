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

import "errors"

// Domain validation errors
var (
	// ErrInvalidWorkItem indicates a WorkItem failed validation.
	ErrInvalidWorkItem = errors.New("invalid work item")

	// ErrEmptyTitle indicates the Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrSelfParent indicates a work item names itself as its parent.
	ErrSelfParent = errors.New("work item cannot be its own parent")

	// ErrInvalidDecision indicates a ClassificationDecision carries an unknown decision kind.
	ErrInvalidDecision = errors.New("invalid classification decision")
)

// Decision validation issues. These flag a decision without rejecting it.
var (
	// ErrLowConfidence indicates the decision confidence is below the review threshold.
	ErrLowConfidence = errors.New("low confidence decision")

	// ErrMissingParentID indicates an AddAsChild decision without a parent ID.
	ErrMissingParentID = errors.New("add-as-child decision has no parent id")

	// ErrUnknownParent indicates an AddAsChild decision targets a node that does not exist.
	ErrUnknownParent = errors.New("add-as-child decision targets unknown parent")

	// ErrIncompleteSuggestedParent indicates a CreateParent decision lacks a title or description.
	ErrIncompleteSuggestedParent = errors.New("create-parent decision is missing title or description")
)
