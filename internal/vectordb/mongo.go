package vectordb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ykhalidz/askdocs/internal/faults"
)

// vectorIndexName is the fixed name of the cosmosSearch vector index.
const vectorIndexName = "vectorSearchIndex"

// ivfNumLists is the cluster count for the IVF index family.
const ivfNumLists = 100

// MongoStore implements VectorStore on Azure Cosmos DB for MongoDB vCore
// using cosmosSearch vector indexes. The index family (HNSW, IVF or
// DiskANN) is an accuracy/speed trade-off chosen at index creation.
type MongoStore struct {
	client    *mongo.Client
	coll      *mongo.Collection
	indexKind string
}

// mongoRecord is the persisted document shape.
type mongoRecord struct {
	ID       string        `bson:"_id"`
	Content  string        `bson:"content"`
	Vector   []float32     `bson:"contentVector"`
	Metadata mongoMetadata `bson:"metadata"`
}

type mongoMetadata struct {
	Source         string `bson:"source"`
	Ordinal        int    `bson:"ordinal"`
	TotalFragments int    `bson:"total_fragments"`
}

// NewMongoStore connects to the backend and verifies reachability. An
// unreachable backend is fatal for the whole run.
func NewMongoStore(ctx context.Context, connectionString, database, collection, indexKind string) (*MongoStore, error) {
	if connectionString == "" {
		return nil, faults.Configuration("mongo connection string is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(connectionString))
	if err != nil {
		return nil, faults.Configuration("connect to vector store backend: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, faults.Configuration("vector store backend unreachable: %v", err)
	}

	return &MongoStore{
		client:    client,
		coll:      client.Database(database).Collection(collection),
		indexKind: indexKind,
	}, nil
}

func (s *MongoStore) EnsureIndex(ctx context.Context, dimensions int, similarity Similarity) error {
	if similarity != SimilarityCosine {
		return faults.Configuration("unsupported similarity %q: only %s is supported", similarity, SimilarityCosine)
	}

	existing, err := s.findVectorIndex(ctx)
	if err != nil {
		return fmt.Errorf("list indexes: %w", err)
	}
	if existing != nil {
		// Verify, never rebuild: a mismatched index means the collection
		// holds vectors from a different embedding contract.
		if existing.dimensions != dimensions {
			return faults.Configuration("existing vector index has dimension %d, configured dimension is %d", existing.dimensions, dimensions)
		}
		if existing.similarity != string(similarity) {
			return faults.Configuration("existing vector index uses similarity %q, configured similarity is %q", existing.similarity, similarity)
		}
		return nil
	}

	cmd := bson.D{
		{Key: "createIndexes", Value: s.coll.Name()},
		{Key: "indexes", Value: bson.A{
			bson.D{
				{Key: "name", Value: vectorIndexName},
				{Key: "key", Value: bson.D{{Key: "contentVector", Value: "cosmosSearch"}}},
				{Key: "cosmosSearchOptions", Value: bson.D{
					{Key: "kind", Value: s.indexKind},
					{Key: "numLists", Value: ivfNumLists},
					{Key: "similarity", Value: string(similarity)},
					{Key: "dimensions", Value: dimensions},
				}},
			},
		}},
	}
	if err := s.coll.Database().RunCommand(ctx, cmd).Err(); err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}
	return nil
}

// vectorIndexInfo holds the options of an existing cosmosSearch index.
type vectorIndexInfo struct {
	dimensions int
	similarity string
}

func (s *MongoStore) findVectorIndex(ctx context.Context) (*vectorIndexInfo, error) {
	cur, err := s.coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			return nil, err
		}
		if idx["name"] != vectorIndexName {
			continue
		}
		info := &vectorIndexInfo{}
		if opts, ok := idx["cosmosSearchOptions"].(bson.M); ok {
			info.dimensions = asInt(opts["dimensions"])
			info.similarity, _ = opts["similarity"].(string)
		}
		return info, nil
	}
	return nil, cur.Err()
}

func (s *MongoStore) Upsert(ctx context.Context, records []Record) error {
	opts := options.Replace().SetUpsert(true)
	for _, rec := range records {
		doc := mongoRecord{
			ID:      rec.FragmentID,
			Content: rec.Text,
			Vector:  rec.Vector,
			Metadata: mongoMetadata{
				Source:         rec.Metadata.Source,
				Ordinal:        rec.Metadata.Ordinal,
				TotalFragments: rec.Metadata.TotalFragments,
			},
		}
		if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": rec.FragmentID}, doc, opts); err != nil {
			return fmt.Errorf("upsert fragment %s: %w", rec.FragmentID, err)
		}
	}
	return nil
}

func (s *MongoStore) Search(ctx context.Context, vector []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$search", Value: bson.D{
			{Key: "cosmosSearch", Value: bson.D{
				{Key: "vector", Value: vector},
				{Key: "path", Value: "contentVector"},
				{Key: "k", Value: k},
			}},
			{Key: "returnStoredSource", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 1},
			{Key: "content", Value: 1},
			{Key: "metadata", Value: 1},
			{Key: "similarity", Value: bson.D{{Key: "$meta", Value: "searchScore"}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer cur.Close(ctx)

	var results []SearchResult
	for cur.Next(ctx) {
		var row struct {
			ID         string        `bson:"_id"`
			Content    string        `bson:"content"`
			Metadata   mongoMetadata `bson:"metadata"`
			Similarity float64       `bson:"similarity"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode search result: %w", err)
		}
		results = append(results, SearchResult{
			FragmentID: row.ID,
			Text:       row.Content,
			Metadata: Metadata{
				Source:         row.Metadata.Source,
				Ordinal:        row.Metadata.Ordinal,
				TotalFragments: row.Metadata.TotalFragments,
			},
			Score: float32(row.Similarity),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("vector search cursor: %w", err)
	}

	sortAndRank(results)
	return results, nil
}

func (s *MongoStore) Delete(ctx context.Context, fragmentID string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": fragmentID})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("delete fragment %s: %w", fragmentID, err)
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context) (int, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return int(n), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// asInt converts the numeric BSON types the driver may hand back.
func asInt(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
