package config

import (
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docchat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docchat! Let's configure your workspace.")
	fmt.Println()

	cfg := DefaultConfig()

	providerPrompt := promptui.Select{
		Label: "Select provider for embeddings and answers",
		Items: []string{"openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.EmbeddingProvider = cfg.Provider

	switch cfg.Provider {
	case ProviderOllama:
		cfg.Model = "llama3"
		cfg.EmbeddingModel = "nomic-embed-text"
		cfg.EmbeddingDims = 768
	default:
		cfg.Model = "gpt-4o-mini"
		cfg.EmbeddingModel = string(ModelDefaultEmbedding)
	}

	modelPrompt := promptui.Prompt{
		Label:   "Generation model",
		Default: cfg.Model,
	}
	if cfg.Model, err = modelPrompt.Run(); err != nil {
		return nil, fmt.Errorf("model prompt: %w", err)
	}

	dataDirPrompt := promptui.Prompt{
		Label:   "Data directory",
		Default: cfg.DataDir,
	}
	if cfg.DataDir, err = dataDirPrompt.Run(); err != nil {
		return nil, fmt.Errorf("data dir prompt: %w", err)
	}

	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Port),
		Validate: func(s string) error {
			_, err := strconv.Atoi(s)
			return err
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port prompt: %w", err)
	}
	cfg.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(".docchat.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .docchat.yml")
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		fmt.Printf("Remember to set %s before running `docchat serve`.\n", envVar)
	}
	return cfg, nil
}

// ModelDefaultEmbedding is the embedding model used when none is configured.
const ModelDefaultEmbedding = "text-embedding-3-small"
