package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer one question from the ingested documents",
	Long: `Embeds the question, retrieves the most relevant fragments from the
vector store, and generates an answer grounded strictly in them. Prints
the answer and the source fragments it was grounded on.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("sources", false, "print the retrieved source fragments")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	showSources, _ := cmd.Flags().GetBool("sources")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(context.Background()) }()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
	defer cancel()

	answer, ctxt, err := answerQuestion(ctx, cfg, embedder, provider, store, question)
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)

	if showSources && !ctxt.Empty() {
		fmt.Println("\nSources:")
		for _, r := range ctxt.Results {
			fmt.Printf("  %d. %s (fragment %d of %d, relevance %.2f)\n",
				r.Rank, r.Metadata.Source, r.Metadata.Ordinal+1, r.Metadata.TotalFragments, r.Score)
		}
	}
	return nil
}
