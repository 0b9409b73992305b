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


// Package search provides hybrid semantic and lexical search over work items.
//
// The Searcher runs two legs concurrently:
//   - Vector search over item embeddings
//   - Lexical search matching query keywords and the whole query phrase
//     against titles, descriptions and visions
//
// Items found by both legs become hybrid matches and are boosted. Either leg
// failing only removes its results. A query that is itself a work-item
// identifier skips scoring entirely and returns the item and its direct
// relations.
package search
