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


// Package analysis scores the textual content of work items.
//
// The Extractor turns title, description and vision into scored single-word
// keywords and multi-word phrases. The Analyzer builds on it to produce a
// bounded quality score, to compare two items, and to analyze batches of
// items concurrently.
//
// Scoring is deterministic: identical content and options always produce
// identical keyword lists, scores and ordering.
package analysis
