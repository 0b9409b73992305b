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


// Package placement decides where a new work item belongs in the hierarchy.
//
// Three components cooperate:
//
//   - Ranker turns a loose pool of vector neighbors into family candidates
//     (existing parents whose children cluster around the new item) and
//     sibling candidates (individually similar items).
//   - DecisionEngine asks the classification oracle for a single structured
//     decision and validates it. Oracle failures never escape; they become
//     an add-as-root decision with zero confidence.
//   - Suggester runs both concurrently and merges them into a short,
//     deduplicated list of presentation-ready suggestions.
//
// All scoring is deterministic for fixed adapter responses. Ties keep
// insertion order.
package placement
