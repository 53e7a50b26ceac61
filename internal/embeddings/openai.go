package embeddings

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ykhalidz/askdocs/internal/faults"
)

const maxBatchSize = 100

// OpenAIEmbedder generates embeddings using the OpenAI (or Azure OpenAI)
// embeddings API. The configured dimension is a process-wide contract: a
// response with a different dimension is a configuration error, never
// silently truncated or padded.
type OpenAIEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
}

// Options configures the embedding client endpoint.
type Options struct {
	// AzureEndpoint switches the client to Azure OpenAI; model is then
	// treated as the deployment name.
	AzureEndpoint   string
	AzureAPIVersion string
	// BaseURL overrides the public API base URL; used by tests.
	BaseURL string
}

// NewOpenAIEmbedder creates a new embedder for the given model and
// expected dimension.
func NewOpenAIEmbedder(apiKey, model string, dimensions int, opts Options) *OpenAIEmbedder {
	var client *openai.Client
	if opts.AzureEndpoint != "" {
		cfg := openai.DefaultAzureConfig(apiKey, opts.AzureEndpoint)
		if opts.AzureAPIVersion != "" {
			cfg.APIVersion = opts.AzureAPIVersion
		}
		client = openai.NewClientWithConfig(cfg)
	} else {
		cfg := openai.DefaultConfig(apiKey)
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		client = openai.NewClientWithConfig(cfg)
	}
	return &OpenAIEmbedder{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}
}

func (e *OpenAIEmbedder) Name() string { return e.model }

func (e *OpenAIEmbedder) Dimensions() int { return e.dimensions }

// Embed returns one vector per input, positionally aligned. Inputs the
// provider is known to reject (empty strings) are a per-item failure, not
// a batch failure: their slot in the result is nil and every other text
// still embeds. Callers treat a nil slot as a permanent error for that
// item.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))

	// Skip empty texts; idx maps each sent text back to its input slot.
	idx := make([]int, 0, len(texts))
	sendable := make([]string, 0, len(texts))
	for i, t := range texts {
		if t == "" {
			continue
		}
		idx = append(idx, i)
		sendable = append(sendable, t)
	}

	// Batch up to maxBatchSize texts per API call; order is preserved so
	// vectors align positionally with their inputs.
	for i := 0; i < len(sendable); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(sendable) {
			end = len(sendable)
		}
		batch := sendable[i:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, classify(err)
		}

		if len(resp.Data) != len(batch) {
			return nil, faults.Transient(fmt.Errorf("provider returned %d embeddings, expected %d", len(resp.Data), len(batch)))
		}

		for j, emb := range resp.Data {
			if len(emb.Embedding) != e.dimensions {
				return nil, faults.Configuration("provider returned %d-dimensional vectors, configured dimension is %d", len(emb.Embedding), e.dimensions)
			}
			out[idx[i+j]] = emb.Embedding
		}
	}

	return out, nil
}

// classify maps provider errors onto the fault taxonomy: rate limits and
// server faults are transient, input rejections are permanent, context
// errors pass through as cancellations.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return faults.Transient(fmt.Errorf("provider rate limited: %w", err))
		case apiErr.HTTPStatusCode >= 500:
			return faults.Transient(fmt.Errorf("provider unavailable: %w", err))
		default:
			return faults.Permanent(fmt.Errorf("provider rejected request: %w", err))
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return faults.Transient(fmt.Errorf("network error: %w", err))
	}

	return faults.Transient(fmt.Errorf("embedding request failed: %w", err))
}
