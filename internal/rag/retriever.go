// Package rag wires the retrieval pipeline together: embedding questions,
// querying the vector store, assembling bounded grounding context, and
// delegating answer generation.
package rag

import (
	"context"
	"fmt"

	"github.com/ykhalidz/askdocs/internal/embeddings"
	"github.com/ykhalidz/askdocs/internal/vectordb"
)

// Retriever turns a question into an assembled grounding context.
type Retriever struct {
	embedder embeddings.Embedder
	store    vectordb.VectorStore

	topK            int
	maxContextChars int
	minScore        float32
}

// RetrieverOptions bound the retrieval step.
type RetrieverOptions struct {
	TopK            int
	MaxContextChars int
	// MinScore drops results below this raw cosine similarity; zero
	// disables the filter.
	MinScore float32
}

// NewRetriever creates a Retriever over the given embedder and store.
func NewRetriever(embedder embeddings.Embedder, store vectordb.VectorStore, opts RetrieverOptions) *Retriever {
	return &Retriever{
		embedder:        embedder,
		store:           store,
		topK:            opts.TopK,
		maxContextChars: opts.MaxContextChars,
		minScore:        opts.MinScore,
	}
}

// Retrieve embeds the question, queries the store for the topK most
// similar fragments, and assembles them into a context within the
// character budget. Zero results yield a context carrying an explicit
// no-context marker, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string) (*Context, error) {
	vector, err := embeddings.EmbedOne(ctx, r.embedder, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	results, err := r.store.Search(ctx, vector, r.topK)
	if err != nil {
		return nil, fmt.Errorf("search fragments: %w", err)
	}

	if r.minScore != 0 {
		kept := results[:0]
		for _, res := range results {
			if res.Score >= r.minScore {
				kept = append(kept, res)
			}
		}
		results = kept
	}

	return assembleContext(results, r.maxContextChars), nil
}
