package vectordb

import "sort"

// Metadata holds provenance for a stored fragment.
type Metadata struct {
	Source         string // display name of the source document
	Ordinal        int    // fragment position within the document
	TotalFragments int    // fragment count at ingestion time, for diagnostics
}

// Record is the persisted tuple of fragment text, embedding vector and
// metadata, keyed by the fragment's deterministic identifier.
type Record struct {
	FragmentID string
	Text       string
	Vector     []float32
	Metadata   Metadata
}

// SearchResult pairs a stored record with its raw cosine similarity score
// in [-1, 1] and its rank (1-based). Results are ephemeral; they are never
// persisted.
type SearchResult struct {
	FragmentID string
	Text       string
	Metadata   Metadata
	Score      float32
	Rank       int
}

// sortAndRank orders results by score descending, ties broken by fragment
// ID ascending, and assigns 1-based ranks. Backends may return equal-score
// results in arbitrary order; this makes the store's ordering guarantee
// deterministic.
func sortAndRank(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].FragmentID < results[j].FragmentID
	})
	for i := range results {
		results[i].Rank = i + 1
	}
}
