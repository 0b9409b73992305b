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
	"errors"
	"log/slog"
	"strings"
)

const (
	// DefaultMaxDepth bounds every upward walk.
	DefaultMaxDepth = 50

	// DefaultSeparator joins breadcrumb segments.
	DefaultSeparator = " / "

	ellipsis = "..."
)

// PathOptions configures path resolution.
type PathOptions struct {
	IncludeSelf bool   // Append the item itself as the last segment
	MaxDepth    int    // Maximum number of ancestors to walk
	Separator   string // Breadcrumb separator
}

// DefaultPathOptions returns the standard path options.
func DefaultPathOptions() PathOptions {
	return PathOptions{
		IncludeSelf: true,
		MaxDepth:    DefaultMaxDepth,
		Separator:   DefaultSeparator,
	}
}

// Path is an ordered root-to-node path.
type Path struct {
	IDs    []string
	Titles []string

	// Truncated is set when the walk stopped on a cycle, a missing ancestor,
	// or the depth limit rather than at a root.
	Truncated bool

	ancestors int
	separator string
}

// Depth returns the number of ancestors above the item.
func (p Path) Depth() int {
	return p.ancestors
}

// Breadcrumb joins the titles with the configured separator.
func (p Path) Breadcrumb() string {
	return strings.Join(p.Titles, p.sep())
}

// Relative returns the last n segments, prefixed with an ellipsis when the
// full path is longer than n.
func (p Path) Relative(n int) string {
	if n <= 0 || len(p.Titles) <= n {
		return p.Breadcrumb()
	}
	tail := p.Titles[len(p.Titles)-n:]
	return ellipsis + p.sep() + strings.Join(tail, p.sep())
}

func (p Path) sep() string {
	if p.separator == "" {
		return DefaultSeparator
	}
	return p.separator
}

// Resolver walks parent edges to build hierarchy paths.
type Resolver struct {
	graph  Graph
	opts   PathOptions
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		r.logger = logger
		return nil
	}
}

// WithPathOptions replaces the default path options.
func WithPathOptions(opts PathOptions) ResolverOption {
	return func(r *Resolver) error {
		r.opts = opts
		return nil
	}
}

// NewResolver creates a resolver over graph.
func NewResolver(graph Graph, opts ...ResolverOption) (*Resolver, error) {
	if graph == nil {
		return nil, ErrGraphRequired
	}
	r := &Resolver{
		graph:  graph,
		opts:   DefaultPathOptions(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.opts.MaxDepth <= 0 {
		r.opts.MaxDepth = DefaultMaxDepth
	}
	if r.opts.Separator == "" {
		r.opts.Separator = DefaultSeparator
	}
	r.logger = r.logger.With("component", "path-resolver")
	return r, nil
}

// Resolve returns the path from the root to id. It fails only when id itself
// cannot be loaded; problems further up truncate the path instead.
func (r *Resolver) Resolve(ctx context.Context, id string) (Path, error) {
	item, err := r.graph.Item(ctx, id)
	if err != nil {
		return Path{}, err
	}

	var ids, titles []string
	if r.opts.IncludeSelf {
		ids = []string{item.ID}
		titles = []string{item.Title}
	}

	path := Path{separator: r.opts.Separator}
	visited := map[string]struct{}{id: {}}
	current := id
	for depth := 0; ; depth++ {
		if depth >= r.opts.MaxDepth {
			r.logger.Warn("depth limit reached", "id", id, "max_depth", r.opts.MaxDepth)
			path.Truncated = true
			break
		}

		parentID, err := r.graph.ParentOf(ctx, current)
		if err != nil {
			r.logger.Warn("parent lookup failed", "id", current, "err", err)
			path.Truncated = true
			break
		}
		if parentID == "" {
			break
		}
		if _, seen := visited[parentID]; seen {
			r.logger.Warn("cycle detected", "id", id, "at", parentID)
			path.Truncated = true
			break
		}
		visited[parentID] = struct{}{}

		parent, err := r.graph.Item(ctx, parentID)
		if err != nil {
			r.logger.Warn("ancestor missing", "id", parentID, "err", err)
			path.Truncated = true
			break
		}
		ids = append(ids, parent.ID)
		titles = append(titles, parent.Title)
		path.ancestors++
		current = parentID
	}

	// Collected leaf-first.
	reverse(ids)
	reverse(titles)
	path.IDs = ids
	path.Titles = titles
	if path.IDs == nil {
		path.IDs = []string{}
		path.Titles = []string{}
	}
	return path, nil
}

// PathOrFallback resolves the title path of id, falling back to a single
// segment holding title when the item cannot be resolved.
func (r *Resolver) PathOrFallback(ctx context.Context, id, title string) ([]string, int) {
	path, err := r.Resolve(ctx, id)
	if err != nil || len(path.Titles) == 0 {
		if err != nil && !errors.Is(err, ErrNotFound) {
			r.logger.Warn("path resolution failed", "id", id, "err", err)
		}
		return []string{title}, 0
	}
	return path.Titles, path.Depth()
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
