package config

// StoreBackend selects the vector store implementation.
type StoreBackend string

const (
	// BackendMongo stores records in Azure Cosmos DB for MongoDB vCore
	// (or any MongoDB with cosmosSearch-compatible vector indexes).
	BackendMongo StoreBackend = "mongo"
	// BackendLocal keeps the index in-process, persisted to a data directory.
	BackendLocal StoreBackend = "local"
)

// IndexKind selects the approximate-nearest-neighbor index family for the
// Mongo backend. This is an accuracy/speed trade-off of the backend index,
// not a store interface variation.
type IndexKind string

const (
	IndexHNSW    IndexKind = "vector-hnsw"    // balanced latency/accuracy
	IndexIVF     IndexKind = "vector-ivf"     // large corpora
	IndexDiskANN IndexKind = "vector-diskann" // corpora exceeding memory
)

// Config is the top-level askdocs configuration, corresponding to .askdocs.yml.
type Config struct {
	Embedding EmbeddingConfig `yaml:"embedding" koanf:"embedding"`
	Chat      ChatConfig      `yaml:"chat" koanf:"chat"`
	Store     StoreConfig     `yaml:"store" koanf:"store"`
	Ingest    IngestConfig    `yaml:"ingest" koanf:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval" koanf:"retrieval"`
}

// EmbeddingConfig describes the embedding provider contract.
type EmbeddingConfig struct {
	Model      string `yaml:"model" koanf:"model"`
	Dimensions int    `yaml:"dimensions" koanf:"dimensions"`
	// AzureEndpoint switches the client to Azure OpenAI when set.
	AzureEndpoint   string `yaml:"azure_endpoint" koanf:"azure_endpoint"`
	AzureAPIVersion string `yaml:"azure_api_version" koanf:"azure_api_version"`
	MaxRetries      int    `yaml:"max_retries" koanf:"max_retries"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// ChatConfig describes the generation provider.
type ChatConfig struct {
	Model           string `yaml:"model" koanf:"model"`
	AzureEndpoint   string `yaml:"azure_endpoint" koanf:"azure_endpoint"`
	AzureAPIVersion string `yaml:"azure_api_version" koanf:"azure_api_version"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// StoreConfig describes the vector store backend.
type StoreConfig struct {
	Backend    StoreBackend `yaml:"backend" koanf:"backend"`
	Database   string       `yaml:"database" koanf:"database"`
	Collection string       `yaml:"collection" koanf:"collection"`
	IndexKind  IndexKind    `yaml:"index_kind" koanf:"index_kind"`
	// DataDir holds the persisted index for the local backend.
	DataDir        string `yaml:"data_dir" koanf:"data_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds" koanf:"timeout_seconds"`
}

// IngestConfig controls document discovery and chunking.
type IngestConfig struct {
	ChunkSize int      `yaml:"chunk_size" koanf:"chunk_size"`
	Overlap   int      `yaml:"overlap" koanf:"overlap"`
	Include   []string `yaml:"include" koanf:"include"`
	Exclude   []string `yaml:"exclude" koanf:"exclude"`
}

// RetrievalConfig controls context assembly at query time.
type RetrievalConfig struct {
	TopK            int `yaml:"top_k" koanf:"top_k"`
	MaxContextChars int `yaml:"max_context_chars" koanf:"max_context_chars"`
	// MinScore drops results below this raw cosine similarity. Zero
	// disables the filter.
	MinScore float64 `yaml:"min_score" koanf:"min_score"`
}
