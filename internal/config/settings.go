package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is built once at startup and handed to every client constructor.
type Settings struct {
	IsProd   bool   `yaml:"is_prod"`
	LogLevel string `yaml:"log_level"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	OpenAIAPIKey string `yaml:"openai_api_key"`

	LLMProvider        string `yaml:"llm_provider"`
	EmbeddingProvider  string `yaml:"embedding_provider"`
	TextModel          string `yaml:"text_model"`
	VisionModel        string `yaml:"vision_model"`
	EmbeddingModel     string `yaml:"embedding_model"`
	EmbeddingDimension int    `yaml:"embedding_dimension"`

	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	DataDir      string `yaml:"data_dir"`

	VectorStore    string `yaml:"vector_store"`
	VectorDBPath   string `yaml:"vector_db_path"`
	CollectionName string `yaml:"collection_name"`
	CompressStore  bool   `yaml:"compress_store"`

	QdrantHost   string `yaml:"qdrant_host"`
	QdrantPort   int    `yaml:"qdrant_port"`
	QdrantAPIKey string `yaml:"qdrant_api_key"`
	QdrantUseTLS bool   `yaml:"qdrant_use_tls"`

	DatabaseURL string `yaml:"database_url"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	ListenAddr string `yaml:"listen_addr"`
	AuthToken  string `yaml:"auth_token"`
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	return &Settings{
		LogLevel:          "info",
		LLMProvider:       ProviderGemini,
		EmbeddingProvider: ProviderGemini,
		ChunkSize:         DefaultChunkSize,
		ChunkOverlap:      DefaultChunkOverlap,
		TopK:              DefaultTopK,
		DataDir:           DefaultDataDir,
		VectorStore:       StoreChromem,
		VectorDBPath:      DefaultVectorDBPath,
		CollectionName:    DefaultCollection,
		QdrantHost:        QdrantHost,
		QdrantPort:        QdrantGrpcPort,
		QdrantUseTLS:      QdrantUseTLS,
		ListenAddr:        ServerListenAddr,
	}
}

// Load builds Settings from defaults, a .env file, an optional YAML file and
// finally the process environment, in that order of precedence.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	s := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, s); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	s.applyModelDefaults()

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	setString(&s.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&s.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.LLMProvider, "LLM_PROVIDER")
	setString(&s.EmbeddingProvider, "EMBEDDING_PROVIDER")
	setString(&s.TextModel, "TEXT_MODEL")
	setString(&s.VisionModel, "VISION_MODEL")
	setString(&s.EmbeddingModel, "EMBEDDING_MODEL")
	setString(&s.DataDir, "DATA_DIR")
	setString(&s.VectorStore, "VECTOR_STORE")
	setString(&s.VectorDBPath, "VECTOR_DB_PATH")
	setString(&s.CollectionName, "COLLECTION_NAME")
	setString(&s.QdrantHost, "QDRANT_HOST")
	setString(&s.QdrantAPIKey, "QDRANT_API_KEY")
	setString(&s.DatabaseURL, "DATABASE_URL")
	setString(&s.RedisAddr, "REDIS_ADDR")
	setString(&s.RedisPassword, "REDIS_PASSWORD")
	setString(&s.ListenAddr, "LISTEN_ADDR")
	setString(&s.AuthToken, "AUTH_TOKEN")
	setString(&s.LogLevel, "LOG_LEVEL")

	ints := []struct {
		dst *int
		key string
	}{
		{&s.ChunkSize, "CHUNK_SIZE"},
		{&s.ChunkOverlap, "CHUNK_OVERLAP"},
		{&s.TopK, "TOP_K"},
		{&s.QdrantPort, "QDRANT_PORT"},
		{&s.EmbeddingDimension, "EMBEDDING_DIMENSION"},
	}
	for _, i := range ints {
		if err := setInt(i.dst, i.key); err != nil {
			return err
		}
	}

	bools := []struct {
		dst *bool
		key string
	}{
		{&s.IsProd, "IS_PROD"},
		{&s.QdrantUseTLS, "QDRANT_USE_TLS"},
		{&s.CompressStore, "COMPRESS_STORE"},
	}
	for _, b := range bools {
		if err := setBool(b.dst, b.key); err != nil {
			return err
		}
	}
	return nil
}

func (s *Settings) applyModelDefaults() {
	s.LLMProvider = strings.ToLower(s.LLMProvider)
	s.EmbeddingProvider = strings.ToLower(s.EmbeddingProvider)
	s.VectorStore = strings.ToLower(s.VectorStore)

	if s.TextModel == "" {
		s.TextModel = GeminiTextModel
		if s.LLMProvider == ProviderOpenAI {
			s.TextModel = OpenAITextModel
		}
	}
	if s.VisionModel == "" {
		s.VisionModel = GeminiVisionModel
		if s.LLMProvider == ProviderOpenAI {
			s.VisionModel = OpenAIVisionModel
		}
	}
	if s.EmbeddingModel == "" {
		s.EmbeddingModel = GoogleEmbeddingModel
		if s.EmbeddingProvider == ProviderOpenAI {
			s.EmbeddingModel = OpenAIEmbeddingModel
		}
	}
	if s.EmbeddingDimension == 0 {
		s.EmbeddingDimension = EmbeddingOutputDimensionality
	}
}

// Validate reports the first setting that would make the pipeline unusable.
func (s *Settings) Validate() error {
	switch {
	case s.ChunkSize <= 0:
		return fmt.Errorf("chunk size must be positive, got %d", s.ChunkSize)
	case s.ChunkOverlap < 0 || s.ChunkOverlap >= s.ChunkSize:
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", s.ChunkSize, s.ChunkOverlap)
	case s.TopK <= 0:
		return fmt.Errorf("top k must be positive, got %d", s.TopK)
	case s.EmbeddingDimension < 0:
		return fmt.Errorf("embedding dimension must not be negative, got %d", s.EmbeddingDimension)
	}

	for _, p := range []string{s.LLMProvider, s.EmbeddingProvider} {
		switch p {
		case ProviderGemini:
			if s.GeminiAPIKey == "" {
				return errors.New("GEMINI_API_KEY is required for the gemini provider")
			}
		case ProviderOpenAI:
			if s.OpenAIAPIKey == "" {
				return errors.New("OPENAI_API_KEY is required for the openai provider")
			}
		default:
			return fmt.Errorf("unknown provider %q", p)
		}
	}

	switch s.VectorStore {
	case StoreChromem:
		if s.VectorDBPath == "" {
			return errors.New("VECTOR_DB_PATH is required for the chromem store")
		}
	case StoreQdrant:
		if s.QdrantHost == "" || s.QdrantPort <= 0 {
			return errors.New("QDRANT_HOST and QDRANT_PORT are required for the qdrant store")
		}
	case StorePgvector:
		if s.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the pgvector store")
		}
	default:
		return fmt.Errorf("unknown vector store %q", s.VectorStore)
	}

	if s.CollectionName == "" {
		return errors.New("collection name must not be empty")
	}
	return nil
}

// TraceID returns the trace id stored on ctx, or an empty string.
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(TRACE_ID_KEY).(string)
	return traceID
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = b
	return nil
}
