package placement

import "errors"

var (
	// ErrSearcherRequired is returned when a ranker is built without a vector searcher.
	ErrSearcherRequired = errors.New("vector searcher is required")

	// ErrGraphRequired is returned when a ranker is built without a hierarchy graph.
	ErrGraphRequired = errors.New("hierarchy graph is required")

	// ErrClassifierRequired is returned when a decision engine is built without a classifier.
	ErrClassifierRequired = errors.New("classifier is required")

	// ErrEmbedderRequired is returned when a suggester is built without an embedder.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrRankerRequired is returned when a suggester is built without a ranker.
	ErrRankerRequired = errors.New("ranker is required")

	// ErrEngineRequired is returned when a suggester is built without a decision engine.
	ErrEngineRequired = errors.New("decision engine is required")

	// ErrCorpusRequired is returned when a suggester is built without a corpus.
	ErrCorpusRequired = errors.New("corpus is required")

	// ErrInvalidParallelism is returned for a non-positive lookup parallelism.
	ErrInvalidParallelism = errors.New("parallelism must be positive")

	// ErrInvalidThreshold is returned for a confidence threshold outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be within [0,1]")
)
