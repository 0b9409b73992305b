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


package hierarchy

import (
	"context"

	"github.com/exhibit-org/actionbias-sub003/core"
)

// Graph is read access to the parent/child edges of the hierarchy.
type Graph interface {
	// Item returns the item with the given ID, or an error wrapping ErrNotFound.
	Item(ctx context.Context, id string) (*core.WorkItem, error)

	// ParentOf returns the parent ID of an item, or "" for a root.
	ParentOf(ctx context.Context, id string) (string, error)

	// ChildrenOf returns the IDs of an item's direct children.
	ChildrenOf(ctx context.Context, id string) ([]string, error)
}

// Relations extends Graph with dependency edges.
type Relations interface {
	Graph

	// DependenciesOf returns the IDs an item depends on.
	DependenciesOf(ctx context.Context, id string) ([]string, error)

	// DependentsOf returns the IDs of items that depend on the given item.
	DependentsOf(ctx context.Context, id string) ([]string, error)
}
