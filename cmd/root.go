package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents over a session-scoped semantic index",
	Long: `Doc Chat ingests PDF, Word, and text documents, chunks and embeds them
into a per-session vector index, and answers questions grounded in the
retrieved passages. It runs as an HTTP server or as one-shot CLI
commands against a local corpus.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docchat.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
