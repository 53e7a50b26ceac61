package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "askdocs",
	Short: "Ask natural-language questions about a private document collection",
	Long: `askdocs ingests a directory of documents (PDF, DOCX, text, markdown)
into a vector store and answers questions grounded strictly in the
most relevant passages. Ingest once, then ask, chat, or serve.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Secrets come from the environment; a local .env is optional.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".askdocs.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
