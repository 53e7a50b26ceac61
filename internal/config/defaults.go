package config

// DefaultExcludes are glob patterns excluded from ingestion by default.
var DefaultExcludes = []string{
	".git/**",
	"**/.git/**",
	"*.tmp",
	"*.lock",
}

// DefaultIncludes limits ingestion to the document formats the extractor
// understands.
var DefaultIncludes = []string{
	"**/*.pdf",
	"**/*.docx",
	"**/*.txt",
	"**/*.md",
}

// DefaultConfig returns a Config with sensible defaults. The chunking and
// embedding values match the corpus the system was tuned on: 1000-char
// windows with 200 chars of overlap, 1536-dimensional vectors.
func DefaultConfig() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Model:           "text-embedding-ada-002",
			Dimensions:      1536,
			AzureAPIVersion: "2024-02-01",
			MaxRetries:      5,
			TimeoutSeconds:  30,
		},
		Chat: ChatConfig{
			Model:           "gpt-4o",
			AzureAPIVersion: "2024-02-01",
			TimeoutSeconds:  120,
		},
		Store: StoreConfig{
			Backend:        BackendMongo,
			Database:       "knowledge_base",
			Collection:     "fragments",
			IndexKind:      IndexHNSW,
			DataDir:        ".askdocs",
			TimeoutSeconds: 30,
		},
		Ingest: IngestConfig{
			ChunkSize: 1000,
			Overlap:   200,
			Include:   DefaultIncludes,
			Exclude:   DefaultExcludes,
		},
		Retrieval: RetrievalConfig{
			TopK:            5,
			MaxContextChars: 6000,
		},
	}
}
