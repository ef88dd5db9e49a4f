package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/osaleh99/doc-chat/internal/corpus"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest local documents into a session corpus",
	Long:  `Reads the given PDF, Word, or text files, chunks and embeds them, and rebuilds the session's index. Use the same --session with 'docchat ask' to query them.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().String("session", "cli", "session to ingest into")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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
	mgr, database, err := openManager(cfg, embedder, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	bar := progressbar.Default(int64(len(args)), "reading files")
	files := make([]corpus.UploadFile, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		files = append(files, corpus.UploadFile{Name: filepath.Base(path), Data: data})
		bar.Add(1)
	}

	res, err := mgr.Ingest(ctx, sessionID, files)
	if err != nil {
		return err
	}

	fmt.Printf("Session %q now holds %d document(s):\n", sessionID, len(res.UploadedFilenames))
	for _, name := range res.UploadedFilenames {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
