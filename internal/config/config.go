package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ASKDOCS_*). A missing file is not an
// error; defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: ASKDOCS_RETRIEVAL_TOP_K -> retrieval.top_k.
	if err := k.Load(env.Provider("ASKDOCS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ASKDOCS_"))
		return strings.Replace(s, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validBackends is the set of recognized store backends.
var validBackends = map[StoreBackend]bool{
	BackendMongo: true,
	BackendLocal: true,
}

// validIndexKinds is the set of recognized vector index families.
var validIndexKinds = map[IndexKind]bool{
	IndexHNSW:    true,
	IndexIVF:     true,
	IndexDiskANN: true,
}

// Validate checks that the configuration contains valid values. All
// violations are configuration errors: they abort before any work begins.
func (c *Config) Validate() error {
	if c.Embedding.Model == "" {
		return faults.Configuration("embedding.model is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return faults.Configuration("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Chat.Model == "" {
		return faults.Configuration("chat.model is required")
	}
	if !validBackends[c.Store.Backend] {
		return faults.Configuration("invalid store.backend %q: must be mongo or local", c.Store.Backend)
	}
	if !validIndexKinds[c.Store.IndexKind] {
		return faults.Configuration("invalid store.index_kind %q: must be one of vector-hnsw, vector-ivf, vector-diskann", c.Store.IndexKind)
	}
	if c.Ingest.ChunkSize <= 0 {
		return faults.Configuration("ingest.chunk_size must be positive, got %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.Overlap < 0 || c.Ingest.Overlap >= c.Ingest.ChunkSize {
		return faults.Configuration("ingest.overlap must satisfy 0 <= overlap < chunk_size, got overlap=%d chunk_size=%d", c.Ingest.Overlap, c.Ingest.ChunkSize)
	}
	if c.Retrieval.TopK < 0 {
		return faults.Configuration("retrieval.top_k must be non-negative, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MaxContextChars <= 0 {
		return faults.Configuration("retrieval.max_context_chars must be positive, got %d", c.Retrieval.MaxContextChars)
	}
	if c.Retrieval.MinScore < -1 || c.Retrieval.MinScore > 1 {
		return faults.Configuration("retrieval.min_score must be a cosine value in [-1, 1], got %v", c.Retrieval.MinScore)
	}
	return nil
}

// MongoConnectionString returns the Mongo vCore connection string from the
// environment. Connection secrets never live in the YAML file.
func MongoConnectionString() string {
	return os.Getenv("MONGO_CONNECTION_STRING")
}

// OpenAIAPIKey returns the API key for the active endpoint: the Azure key
// when an Azure endpoint is configured, the public key otherwise.
func OpenAIAPIKey(azureEndpoint string) string {
	if azureEndpoint != "" {
		return os.Getenv("AZURE_OPENAI_KEY")
	}
	return os.Getenv("OPENAI_API_KEY")
}
