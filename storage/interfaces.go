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


package storage

import (
	"context"

	"github.com/exhibit-org/actionbias-sub003/core"
	"github.com/exhibit-org/actionbias-sub003/hierarchy"
	"github.com/exhibit-org/actionbias-sub003/vector"
)

// ItemRepository persists work items together with their parent and
// dependency edges. It serves as the hierarchy graph, the vector index and
// the lexical corpus for the core components.
// Implementations must be thread-safe and support concurrent access.
type ItemRepository interface {
	hierarchy.Relations
	vector.Index

	// Items returns every stored item in insertion order.
	Items(ctx context.Context) ([]*core.WorkItem, error)

	// PutItems inserts or replaces items by ID.
	// Replacing an item keeps its original insertion position and
	// rewrites its parent and dependency index entries.
	PutItems(ctx context.Context, items ...*core.WorkItem) error

	// DeleteItems removes items by ID along with their index entries.
	// Returns ErrNotFound if any item doesn't exist.
	DeleteItems(ctx context.Context, ids ...string) error

	// Count returns the number of stored items.
	Count(ctx context.Context) (int, error)

	// Close releases the repository and any backend it owns.
	Close() error
}
