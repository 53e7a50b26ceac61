package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ykhalidz/askdocs/internal/chunker"
	"github.com/ykhalidz/askdocs/internal/embeddings"
	"github.com/ykhalidz/askdocs/internal/extract"
	"github.com/ykhalidz/askdocs/internal/faults"
	"github.com/ykhalidz/askdocs/internal/vectordb"
	"github.com/ykhalidz/askdocs/internal/walker"
)

// ProgressFunc receives ingestion progress: documents done so far, the
// total, and the document being processed.
type ProgressFunc func(done, total int, doc string)

// DocumentReport records the outcome of ingesting one document.
type DocumentReport struct {
	RelPath     string
	ContentHash string
	Fragments   int
	Err         error
}

// Summary is the result of one ingestion run. Per-document failures are
// collected here rather than aborting the batch.
type Summary struct {
	RunID     string
	Documents []DocumentReport
	Stored    int // fragments upserted across all documents
	Duration  time.Duration
}

// Succeeded returns the number of documents ingested without error.
func (s *Summary) Succeeded() int {
	n := 0
	for _, d := range s.Documents {
		if d.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of documents that could not be ingested.
func (s *Summary) Failed() int {
	return len(s.Documents) - s.Succeeded()
}

// Ingestor runs the ingestion path: extract -> chunk -> embed -> upsert,
// one document at a time. Single-writer: concurrent runs over the same
// documents are not coordinated.
type Ingestor struct {
	extractor *extract.Extractor
	embedder  embeddings.Embedder
	store     vectordb.VectorStore
	chunkSize int
	overlap   int
	log       *zap.Logger

	onProgress ProgressFunc
}

// NewIngestor creates an Ingestor. The embedder should already carry the
// retry policy; the ingestor treats its errors as final.
func NewIngestor(extractor *extract.Extractor, embedder embeddings.Embedder, store vectordb.VectorStore, chunkSize, overlap int, log *zap.Logger) *Ingestor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingestor{
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		overlap:   overlap,
		log:       log,
	}
}

// SetProgressFunc sets the progress callback.
func (ing *Ingestor) SetProgressFunc(fn ProgressFunc) {
	ing.onProgress = fn
}

// Run ingests the given documents. Chunk parameters are validated before
// any work begins; the index is verified against the embedder's dimension
// up front. Per-document failures are collected into the summary;
// configuration errors and cancellation abort the run.
func (ing *Ingestor) Run(ctx context.Context, files []walker.FileInfo) (*Summary, error) {
	// Surface invalid chunk parameters before touching any document.
	if _, err := chunker.Split("probe", "", ing.chunkSize, ing.overlap); err != nil {
		return nil, err
	}

	if err := ing.store.EnsureIndex(ctx, ing.embedder.Dimensions(), vectordb.SimilarityCosine); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}
	log := ing.log.With(zap.String("run_id", summary.RunID))
	log.Info("ingestion started", zap.Int("documents", len(files)))

	for i, f := range files {
		if ing.onProgress != nil {
			ing.onProgress(i, len(files), f.RelPath)
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		report := DocumentReport{RelPath: f.RelPath, ContentHash: f.ContentHash}
		n, err := ing.ingestOne(ctx, f)
		report.Fragments = n
		if err != nil {
			if faults.IsCancelled(err) || faults.IsConfiguration(err) {
				return summary, err
			}
			log.Warn("document failed",
				zap.String("document", f.RelPath),
				zap.String("kind", faults.Classify(err).String()),
				zap.Error(err))
			report.Err = err
		} else {
			summary.Stored += n
			log.Info("document ingested",
				zap.String("document", f.RelPath),
				zap.String("content_hash", f.ContentHash),
				zap.Int("fragments", n))
		}
		summary.Documents = append(summary.Documents, report)
	}

	if ing.onProgress != nil {
		ing.onProgress(len(files), len(files), "")
	}

	summary.Duration = time.Since(start)
	log.Info("ingestion finished",
		zap.Int("succeeded", summary.Succeeded()),
		zap.Int("failed", summary.Failed()),
		zap.Int("fragments", summary.Stored),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// ingestOne processes a single document and returns the number of
// fragments stored.
func (ing *Ingestor) ingestOne(ctx context.Context, f walker.FileInfo) (int, error) {
	if ext := filepath.Ext(f.RelPath); !extract.Supported(ext) {
		// Guard before reading the file: include patterns can match
		// formats the extractor does not understand.
		return 0, faults.Permanent(fmt.Errorf("unsupported document format %q", ext))
	}

	text, err := ing.extractor.Extract(f.Path)
	if err != nil {
		return 0, fmt.Errorf("extract %s: %w", f.RelPath, err)
	}

	fragments, err := chunker.Split(f.RelPath, text, ing.chunkSize, ing.overlap)
	if err != nil {
		return 0, err
	}
	if len(fragments) == 0 {
		return 0, nil
	}

	texts := make([]string, len(fragments))
	for i, fr := range fragments {
		texts[i] = fr.Text
	}

	// Batch order is preserved so vectors align with their fragments.
	vectors, err := ing.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s: %w", f.RelPath, err)
	}

	records := make([]vectordb.Record, 0, len(fragments))
	for i, fr := range fragments {
		// A nil slot means the provider rejected this one fragment; the
		// rest of the document still ingests.
		if vectors[i] == nil {
			continue
		}
		records = append(records, vectordb.Record{
			FragmentID: fr.ID,
			Text:       fr.Text,
			Vector:     vectors[i],
			Metadata: vectordb.Metadata{
				Source:         fr.DocumentID,
				Ordinal:        fr.Ordinal,
				TotalFragments: fr.TotalFragments,
			},
		})
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := ing.store.Upsert(ctx, records); err != nil {
		return 0, fmt.Errorf("store %s: %w", f.RelPath, err)
	}
	return len(records), nil
}
