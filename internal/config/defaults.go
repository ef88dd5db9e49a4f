package config

import "path/filepath"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o-mini",
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		DataDir:           ".docchat",
		Port:              8080,
		MaxFiles:          20,
		MaxFileSizeMB:     10,
		ChunkSize:         2000,
		ChunkOverlap:      200,
		TopK:              5,
		MaxPages:          1000,
		MaxParagraphs:     3000,
		SessionTTLHours:   0, // sessions never expire unless set
	}
}

// DatabasePath returns the metadata database location under DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "docchat.db")
}

// UploadRoot returns the root of per-session file areas.
func (c *Config) UploadRoot() string {
	return filepath.Join(c.DataDir, "uploads")
}

// IndexRoot returns the root of per-session index artifacts.
func (c *Config) IndexRoot() string {
	return filepath.Join(c.DataDir, "indices")
}
