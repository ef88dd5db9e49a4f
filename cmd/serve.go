package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osaleh99/doc-chat/internal/answer"
	"github.com/osaleh99/doc-chat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docchat HTTP server",
	Long:  `Starts the HTTP API for uploading documents and asking questions. Each browser session gets its own isolated corpus and index.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		srv := server.New(server.Config{
			Port:       cfg.Port,
			AllowAll:   cfg.AllowAllOrigins,
			SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
		}, mgr, engine, logger)

		// Shut down cleanly on SIGINT/SIGTERM.
		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			logger.Info().Str("signal", sig.String()).Msg("shutting down")
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
