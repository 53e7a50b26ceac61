package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ykhalidz/askdocs/internal/extract"
	"github.com/ykhalidz/askdocs/internal/progress"
	"github.com/ykhalidz/askdocs/internal/rag"
	"github.com/ykhalidz/askdocs/internal/walker"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Chunk, embed, and store every document under a directory",
	Long: `Walks the directory for supported documents (PDF, DOCX, text,
markdown), splits them into overlapping fragments, embeds each fragment,
and upserts the result into the vector store. Re-running on unchanged
documents overwrites the same fragments, so ingestion is idempotent.

Per-document failures are reported in the summary and do not abort the
run; the command exits non-zero only on configuration errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := walker.Walk(walker.Config{
		RootDir: dir,
		Include: cfg.Ingest.Include,
		Exclude: cfg.Ingest.Exclude,
	})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No supported documents found in %s\n", dir)
		return nil
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	ingestor := rag.NewIngestor(extract.NewExtractor(), embedder, store, cfg.Ingest.ChunkSize, cfg.Ingest.Overlap, newLogger())

	reporter := progress.NewReporter()
	reporter.Start(len(files))
	ingestor.SetProgressFunc(func(done, total int, doc string) {
		reporter.Update(done, doc)
	})

	summary, err := ingestor.Run(ctx, files)
	reporter.Finish()
	if err != nil {
		return err
	}

	persistErr := persistIfLocal(ctx, cfg, store)

	fmt.Printf("\nIngestion run %s\n", summary.RunID)
	for _, d := range summary.Documents {
		if d.Err != nil {
			fmt.Printf("  FAIL %s: %v\n", d.RelPath, d.Err)
		} else {
			fmt.Printf("  ok   %s (%d fragments)\n", d.RelPath, d.Fragments)
		}
	}
	fmt.Printf("\n%d succeeded, %d failed, %d fragments stored in %s\n",
		summary.Succeeded(), summary.Failed(), summary.Stored, summary.Duration.Round(10*time.Millisecond))

	// Individual document failures are already in the summary; they do
	// not make the run itself fail.
	return persistErr
}
