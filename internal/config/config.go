// Package config loads the doc-chat configuration from .docchat.yml with
// DOCCHAT_* environment overrides layered on top.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCCHAT_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCCHAT_PORT -> port, etc.
	if err := k.Load(env.Provider("DOCCHAT_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCCHAT_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, ollama", c.Provider)
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}
	if c.EmbeddingProvider == ProviderOllama && c.EmbeddingDims <= 0 {
		return fmt.Errorf("embedding_dims is required for ollama embeddings")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap must be in [0, chunk_size)")
	}
	if c.MaxFiles <= 0 {
		return fmt.Errorf("max_files must be positive")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive")
	}
	if c.SessionTTLHours < 0 {
		return fmt.Errorf("session_ttl_hours must be non-negative")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for the
// API key of the given provider, or "" when none is needed.
func APIKeyEnvVar(provider ProviderType) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return ""
}
