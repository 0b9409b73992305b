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


package search

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrVectorSearcherRequired is returned when a vector searcher is not provided.
	ErrVectorSearcherRequired = errors.New("vector searcher required")

	// ErrGraphRequired is returned when a relations graph is not provided.
	ErrGraphRequired = errors.New("relations graph required")

	// ErrCorpusRequired is returned when an item corpus is not provided.
	ErrCorpusRequired = errors.New("item corpus required")
)
