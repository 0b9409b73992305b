package hierarchy

import "errors"

var (
	// ErrNotFound is returned when an item is not present in the graph.
	ErrNotFound = errors.New("item not found")

	// ErrGraphRequired is returned when a resolver is built without a graph.
	ErrGraphRequired = errors.New("graph is required")
)
