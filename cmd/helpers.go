package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/osaleh99/doc-chat/internal/config"
	"github.com/osaleh99/doc-chat/internal/corpus"
	"github.com/osaleh99/doc-chat/internal/db"
	"github.com/osaleh99/doc-chat/internal/embeddings"
	"github.com/osaleh99/doc-chat/internal/llm"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docchat init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger, honoring the --verbose flag.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// createEmbedderFromConfig creates an embeddings.Embedder based on config.
func createEmbedderFromConfig(cfg *config.Config) (embeddings.Embedder, error) {
	provider := cfg.EmbeddingProvider
	if provider == "" {
		provider = cfg.Provider
	}
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.ModelDefaultEmbedding
	}

	switch provider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv(config.APIKeyEnvVar(config.ProviderOpenAI))
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required for OpenAI embeddings")
		}
		return embeddings.NewOpenAIEmbedder(apiKey, embeddings.OpenAIModel(model)), nil
	case config.ProviderOllama:
		return embeddings.NewOllamaEmbedder(model, cfg.EmbeddingDims, ""), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// createLLMProviderFromConfig creates an LLM provider based on config settings.
func createLLMProviderFromConfig(cfg *config.Config) (llm.Provider, error) {
	return llm.NewProvider(string(cfg.Provider), cfg.Model)
}

// openManager wires the metadata store and corpus manager from config. The
// caller owns the returned database handle.
func openManager(cfg *config.Config, embedder embeddings.Embedder, logger zerolog.Logger) (*corpus.Manager, *db.DB, error) {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	mgr := corpus.NewManager(corpus.NewStore(database), embedder, corpus.ManagerConfig{
		UploadRoot:    cfg.UploadRoot(),
		IndexRoot:     cfg.IndexRoot(),
		ChunkSize:     cfg.ChunkSize,
		ChunkOverlap:  cfg.ChunkOverlap,
		MaxFiles:      cfg.MaxFiles,
		MaxFileSizeMB: cfg.MaxFileSizeMB,
		MaxPages:      cfg.MaxPages,
		MaxParagraphs: cfg.MaxParagraphs,
	}, logger)
	return mgr, database, nil
}
