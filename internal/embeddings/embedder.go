// Package embeddings converts text into fixed-dimension vectors via an
// external embedding provider. The adapter is a pure boundary contract: no
// caching, no text normalization.
package embeddings

import (
	"context"
	"fmt"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// Embedder defines the interface for generating text embeddings.
// Implementations must return one vector per input, in input order. An
// input rejected by the provider gets a nil slot rather than failing the
// whole batch; callers treat a nil slot as a permanent per-item error.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the number of dimensions in the embedding vectors.
	Dimensions() int

	// Name returns the name/identifier of the embedding model.
	Name() string
}

// EmbedOne embeds a single text as a one-element batch. A rejected input
// surfaces as a permanent error here, since there is no batch to continue.
func EmbedOne(ctx context.Context, e Embedder, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if vecs[0] == nil {
		return nil, faults.Permanent(fmt.Errorf("provider rejected text %q", text))
	}
	return vecs[0], nil
}
