package vectordb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ykhalidz/askdocs/internal/faults"
)

const collectionName = "fragments"

// LocalStore implements VectorStore with an in-process chromem-go index,
// persisted to a data directory. Vectors arrive precomputed, so the
// collection's embedding function is never invoked.
type LocalStore struct {
	db         *chromem.DB
	collection *chromem.Collection
	dimensions int
	similarity Similarity
}

// indexMeta is persisted next to the index so a reload can verify the
// embedding contract before serving queries.
type indexMeta struct {
	Dimensions int    `json:"dimensions"`
	Similarity string `json:"similarity"`
}

// NewLocalStore creates an empty in-memory LocalStore.
func NewLocalStore() (*LocalStore, error) {
	db := chromem.NewDB()

	// Placeholder: records carry precomputed vectors and queries use
	// QueryEmbedding, so chromem must never embed on its own.
	noEmbed := func(_ context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("local store received text %q without a precomputed vector", text)
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, noEmbed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	return &LocalStore{db: db, collection: col}, nil
}

func (s *LocalStore) EnsureIndex(_ context.Context, dimensions int, similarity Similarity) error {
	if similarity != SimilarityCosine {
		return faults.Configuration("unsupported similarity %q: only %s is supported", similarity, SimilarityCosine)
	}
	if dimensions <= 0 {
		return faults.Configuration("index dimension must be positive, got %d", dimensions)
	}
	if s.dimensions != 0 && s.dimensions != dimensions {
		return faults.Configuration("existing index has dimension %d, configured dimension is %d", s.dimensions, dimensions)
	}
	s.dimensions = dimensions
	s.similarity = similarity
	return nil
}

func (s *LocalStore) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(records))
	for i, rec := range records {
		if s.dimensions != 0 && len(rec.Vector) != s.dimensions {
			return faults.Configuration("fragment %s has a %d-dimensional vector, index dimension is %d", rec.FragmentID, len(rec.Vector), s.dimensions)
		}
		docs[i] = chromem.Document{
			ID:        rec.FragmentID,
			Content:   rec.Text,
			Embedding: rec.Vector,
			Metadata: map[string]string{
				"source":          rec.Metadata.Source,
				"ordinal":         strconv.Itoa(rec.Metadata.Ordinal),
				"total_fragments": strconv.Itoa(rec.Metadata.TotalFragments),
			},
		}
	}

	// chromem keys documents by ID, so re-adding an ID replaces the prior
	// record: ingestion stays idempotent.
	return s.collection.AddDocuments(ctx, docs, 1)
}

func (s *LocalStore) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem requires nResults <= collection size.
	if k > count {
		k = count
	}

	rows, err := s.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	results := make([]SearchResult, len(rows))
	for i, r := range rows {
		ordinal, _ := strconv.Atoi(r.Metadata["ordinal"])
		total, _ := strconv.Atoi(r.Metadata["total_fragments"])
		results[i] = SearchResult{
			FragmentID: r.ID,
			Text:       r.Content,
			Metadata: Metadata{
				Source:         r.Metadata["source"],
				Ordinal:        ordinal,
				TotalFragments: total,
			},
			Score: r.Similarity,
		}
	}

	sortAndRank(results)
	return results, nil
}

func (s *LocalStore) Delete(ctx context.Context, fragmentID string) error {
	count := s.collection.Count()
	if count == 0 {
		return nil
	}
	// Absent IDs are a no-op by contract.
	return s.collection.Delete(ctx, nil, nil, fragmentID)
}

func (s *LocalStore) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

func (s *LocalStore) Close(_ context.Context) error {
	return nil
}

// Persist saves the index and its embedding contract to dir.
func (s *LocalStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := s.db.ExportToFile(filepath.Join(dir, "index.gob.gz"), true, ""); err != nil {
		return fmt.Errorf("export index: %w", err)
	}

	meta := indexMeta{Dimensions: s.dimensions, Similarity: string(s.similarity)}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal index meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.meta.json"), data, 0644); err != nil {
		return fmt.Errorf("write index meta: %w", err)
	}
	return nil
}

// Load restores the index from dir and verifies the persisted embedding
// contract against the configured one.
func (s *LocalStore) Load(_ context.Context, dir string) error {
	metaPath := filepath.Join(dir, "index.meta.json")
	if data, err := os.ReadFile(metaPath); err == nil {
		var meta indexMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return fmt.Errorf("parse index meta: %w", err)
		}
		if s.dimensions != 0 && meta.Dimensions != s.dimensions {
			return faults.Configuration("persisted index has dimension %d, configured dimension is %d", meta.Dimensions, s.dimensions)
		}
		s.dimensions = meta.Dimensions
		s.similarity = Similarity(meta.Similarity)
	}

	if err := s.db.ImportFromFile(filepath.Join(dir, "index.gob.gz"), ""); err != nil {
		return fmt.Errorf("import index: %w", err)
	}

	// Re-acquire the collection reference after import.
	col := s.db.GetCollection(collectionName, nil)
	if col == nil {
		return fmt.Errorf("collection %q not found after import", collectionName)
	}
	s.collection = col
	return nil
}
