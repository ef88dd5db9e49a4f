package config

// ProviderType identifies an embedding/generation provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
)

// Config is the top-level doc-chat configuration, corresponding to
// .docchat.yml.
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`
	EmbeddingDims     int          `yaml:"embedding_dims" koanf:"embedding_dims"`
	DataDir           string       `yaml:"data_dir" koanf:"data_dir"`
	Port              int          `yaml:"port" koanf:"port"`
	MaxFiles          int          `yaml:"max_files" koanf:"max_files"`
	MaxFileSizeMB     int          `yaml:"max_file_size_mb" koanf:"max_file_size_mb"`
	ChunkSize         int          `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap      int          `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	TopK              int          `yaml:"top_k" koanf:"top_k"`
	MaxPages          int          `yaml:"max_pages" koanf:"max_pages"`
	MaxParagraphs     int          `yaml:"max_paragraphs" koanf:"max_paragraphs"`
	SessionTTLHours   int          `yaml:"session_ttl_hours" koanf:"session_ttl_hours"`
	AllowAllOrigins   bool         `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
