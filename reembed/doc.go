// Package reembed backfills embeddings for stored work items.
//
// Items missing a vector (or every item, when forced) are embedded in
// batches, normalized to unit length and written back to the repository.
// Failed requests are retried by the embedder, not here. Progress is
// reported to a writer.
package reembed
