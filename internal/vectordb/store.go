// Package vectordb stores embedded fragments and answers approximate
// top-k similarity queries over them.
package vectordb

import "context"

// Similarity identifies the similarity metric of a vector index.
type Similarity string

// SimilarityCosine is the only metric the system uses: the dot product of
// two vectors divided by the product of their magnitudes. Reported scores
// are this raw value, not a distance and not normalized to [0, 1].
const SimilarityCosine Similarity = "COS"

// VectorStore is the durable keyed storage of fragments plus vectors. The
// handle is long-lived and safe for repeated independent operations;
// concurrent writers racing on the same fragment ID resolve as
// last-writer-wins.
type VectorStore interface {
	// EnsureIndex creates the similarity index if absent. If an index
	// already exists it verifies dimension and similarity match and fails
	// fast on mismatch; it never rebuilds or truncates existing data.
	EnsureIndex(ctx context.Context, dimensions int, similarity Similarity) error

	// Upsert stores records keyed by fragment ID. An existing ID is fully
	// replaced (content, vector, metadata); re-running ingestion on an
	// unchanged document set is a no-op for querying clients. Each record
	// is applied atomically.
	Upsert(ctx context.Context, records []Record) error

	// Search returns at most k results ordered by similarity score
	// descending, ties broken by fragment ID ascending. k <= 0 and an
	// empty store both return an empty slice, not an error. The top-k is
	// approximate with respect to the configured index family.
	Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error)

	// Delete removes a record. An absent fragment ID is a no-op.
	Delete(ctx context.Context, fragmentID string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
