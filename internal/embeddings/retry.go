package embeddings

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// RetryingEmbedder wraps an Embedder and retries transient failures (rate
// limits, timeouts, provider outages) with exponential backoff. Permanent
// and configuration errors fail immediately; cancellations are never
// retried.
type RetryingEmbedder struct {
	inner       Embedder
	maxAttempts uint64
}

// WithRetry wraps e with up to maxAttempts attempts per Embed call.
// maxAttempts < 1 means a single attempt (no retry).
func WithRetry(e Embedder, maxAttempts int) *RetryingEmbedder {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingEmbedder{inner: e, maxAttempts: uint64(maxAttempts)}
}

func (r *RetryingEmbedder) Name() string { return r.inner.Name() }

func (r *RetryingEmbedder) Dimensions() int { return r.inner.Dimensions() }

func (r *RetryingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponential(), r.maxAttempts-1),
		ctx,
	)

	var vectors [][]float32
	op := func() error {
		vecs, err := r.inner.Embed(ctx, texts)
		if err != nil {
			if faults.IsTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		vectors = vecs
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return vectors, nil
}

func newExponential() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}
