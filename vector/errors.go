package vector

import "errors"

var (
	// ErrUnsupportedShape is returned when an index returns a result container Normalize does not understand.
	ErrUnsupportedShape = errors.New("unsupported result shape")

	// ErrIndexRequired is returned when a searcher is built without an index.
	ErrIndexRequired = errors.New("vector index is required")
)
