package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// quitTokens end the interactive session.
var quitTokens = map[string]bool{
	"quit": true,
	"exit": true,
	"bye":  true,
	"q":    true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop over the ingested documents",
	Long:  `Reads questions from the terminal until you type quit, exit, bye, or q.`,
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
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

	fmt.Println("Ask questions about your documents. Type 'quit' to end the session.")

	prompt := promptui.Prompt{Label: "Your question"}
	for {
		question, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		question = strings.TrimSpace(question)
		if question == "" {
			continue
		}
		if quitTokens[strings.ToLower(question)] {
			fmt.Println("Goodbye!")
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(cfg.Chat.TimeoutSeconds)*time.Second)
		answer, _, err := answerQuestion(ctx, cfg, embedder, provider, store, question)
		cancel()
		if err != nil {
			// One failed question does not end the session.
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		fmt.Printf("\n%s\n\n", answer.Text)
	}
}
