package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ykhalidz/askdocs/internal/config"
	"github.com/ykhalidz/askdocs/internal/embeddings"
	"github.com/ykhalidz/askdocs/internal/llm"
	"github.com/ykhalidz/askdocs/internal/rag"
	"github.com/ykhalidz/askdocs/internal/vectordb"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEmbedder creates the embedding client with its retry policy.
func newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	apiKey := config.OpenAIAPIKey(cfg.Embedding.AzureEndpoint)
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key is not set (OPENAI_API_KEY or AZURE_OPENAI_KEY)")
	}
	base := embeddings.NewOpenAIEmbedder(apiKey, cfg.Embedding.Model, cfg.Embedding.Dimensions, embeddings.Options{
		AzureEndpoint:   cfg.Embedding.AzureEndpoint,
		AzureAPIVersion: cfg.Embedding.AzureAPIVersion,
	})
	return embeddings.WithRetry(base, cfg.Embedding.MaxRetries), nil
}

// newProvider creates the generation provider.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	apiKey := config.OpenAIAPIKey(cfg.Chat.AzureEndpoint)
	if apiKey == "" {
		return nil, fmt.Errorf("chat API key is not set (OPENAI_API_KEY or AZURE_OPENAI_KEY)")
	}
	return llm.NewOpenAIProvider(apiKey, cfg.Chat.Model, llm.Options{
		AzureEndpoint:   cfg.Chat.AzureEndpoint,
		AzureAPIVersion: cfg.Chat.AzureAPIVersion,
	}), nil
}

// openStore opens the configured vector store backend. The local backend
// loads a previously persisted index when one exists.
func openStore(ctx context.Context, cfg *config.Config) (vectordb.VectorStore, error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		return vectordb.NewMongoStore(ctx,
			config.MongoConnectionString(),
			cfg.Store.Database,
			cfg.Store.Collection,
			string(cfg.Store.IndexKind))
	case config.BackendLocal:
		store, err := vectordb.NewLocalStore()
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndex(ctx, cfg.Embedding.Dimensions, vectordb.SimilarityCosine); err != nil {
			return nil, err
		}
		if _, err := os.Stat(filepath.Join(cfg.Store.DataDir, "index.gob.gz")); err == nil {
			if err := store.Load(ctx, cfg.Store.DataDir); err != nil {
				return nil, fmt.Errorf("loading local index from %s: %w", cfg.Store.DataDir, err)
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// persistIfLocal saves the local backend's index; the Mongo backend is
// durable on its own.
func persistIfLocal(ctx context.Context, cfg *config.Config, store vectordb.VectorStore) error {
	if local, ok := store.(*vectordb.LocalStore); ok {
		return local.Persist(ctx, cfg.Store.DataDir)
	}
	return nil
}

// newRetriever builds the retrieval orchestrator from config.
func newRetriever(cfg *config.Config, embedder embeddings.Embedder, store vectordb.VectorStore) *rag.Retriever {
	return rag.NewRetriever(embedder, store, rag.RetrieverOptions{
		TopK:            cfg.Retrieval.TopK,
		MaxContextChars: cfg.Retrieval.MaxContextChars,
		MinScore:        float32(cfg.Retrieval.MinScore),
	})
}

// answerQuestion runs the full query path: retrieve context, then answer.
func answerQuestion(ctx context.Context, cfg *config.Config, embedder embeddings.Embedder, provider llm.Provider, store vectordb.VectorStore, question string) (*rag.Answer, *rag.Context, error) {
	retriever := newRetriever(cfg, embedder, store)
	ctxt, err := retriever.Retrieve(ctx, question)
	if err != nil {
		return nil, nil, err
	}

	answerer := rag.NewAnswerer(provider, cfg.Chat.Model)
	answer, err := answerer.Ask(ctx, question, ctxt)
	if err != nil {
		return nil, nil, err
	}
	return answer, ctxt, nil
}

// newLogger returns a development logger in verbose mode, a no-op logger
// otherwise so CLI output stays clean.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
