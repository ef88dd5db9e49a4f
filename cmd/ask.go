package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osaleh99/doc-chat/internal/answer"
	"github.com/osaleh99/doc-chat/internal/apperr"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against an ingested session corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("session", "cli", "session to query")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sessionID, _ := cmd.Flags().GetString("session")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return err
	}
	provider, err := createLLMProviderFromConfig(cfg)
	if err != nil {
		return err
	}
	mgr, database, err := openManager(cfg, embedder, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	engine := answer.NewEngine(mgr, embedder, provider, cfg.Model, cfg.TopK, logger)

	res, err := engine.Query(ctx, sessionID, args[0])
	if errors.Is(err, apperr.ErrIndexUnavailable) {
		return fmt.Errorf("session %q has no indexed documents, run `docchat ingest` first", sessionID)
	}
	if err != nil {
		return err
	}

	fmt.Println(res.Answer)
	if res.SourcesCount > 0 {
		fmt.Printf("\n(%d source passage(s))\n", res.SourcesCount)
	}
	return nil
}
