// Package bootstrap turns Settings into the clients and services the
// front ends run on.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/customHttpClient"
	"github.com/akolanti/ragassistant/internal/data/redisStore"
	"github.com/akolanti/ragassistant/internal/data/store"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/internal/rag/embedding"
	"github.com/akolanti/ragassistant/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/ragassistant/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/ragassistant/internal/rag/llm"
	"github.com/akolanti/ragassistant/internal/rag/llm/gemini"
	"github.com/akolanti/ragassistant/internal/rag/llm/openaiLLM"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB/chromemDB"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB/pgvectorDB"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"google.golang.org/genai"
)

var logger = logger_i.NewLogger("bootstrap")

// App holds the pipeline service and everything that has to be closed with it.
type App struct {
	Service rag.Service
	Store   vectorDB.Store
	closers []func() error
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

type providers struct {
	gemini *genai.Client
	openai *openai.Client
}

// NewApp builds the model clients, the embedder, the vector store and the
// pipeline service described by s.
func NewApp(ctx context.Context, s *config.Settings) (*App, error) {
	p, err := newProviders(ctx, s)
	if err != nil {
		return nil, err
	}

	em, err := newEmbedder(s, p)
	if err != nil {
		return nil, err
	}
	textLLM, vision, err := newLLM(s, p)
	if err != nil {
		return nil, err
	}
	vectorStore, err := NewStore(ctx, s, em)
	if err != nil {
		return nil, err
	}

	opts := rag.Options{ChunkSize: s.ChunkSize, ChunkOverlap: s.ChunkOverlap, TopK: s.TopK}
	logger.Info("Pipeline ready",
		"llm", s.LLMProvider, "embedding", s.EmbeddingProvider, "store", s.VectorStore,
		"chunkSize", opts.ChunkSize, "chunkOverlap", opts.ChunkOverlap, "topK", opts.TopK)

	return &App{
		Service: rag.NewService(vectorStore, textLLM, vision, em, opts),
		Store:   vectorStore,
		closers: []func() error{vectorStore.Close},
	}, nil
}

func newProviders(ctx context.Context, s *config.Settings) (providers, error) {
	var p providers
	httpClient := customHttpClient.NewPooledClient()

	if s.LLMProvider == config.ProviderGemini || s.EmbeddingProvider == config.ProviderGemini {
		c, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:     s.GeminiAPIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		})
		if err != nil {
			return p, fmt.Errorf("could not create gemini client: %w", err)
		}
		p.gemini = c
	}
	if s.LLMProvider == config.ProviderOpenAI || s.EmbeddingProvider == config.ProviderOpenAI {
		c := openai.NewClient(option.WithAPIKey(s.OpenAIAPIKey), option.WithHTTPClient(httpClient))
		p.openai = &c
	}
	return p, nil
}

func newEmbedder(s *config.Settings, p providers) (embedding.Embedder, error) {
	switch s.EmbeddingProvider {
	case config.ProviderGemini:
		return googleEmbedding.New(p.gemini, s.EmbeddingModel, s.EmbeddingDimension), nil
	case config.ProviderOpenAI:
		return openaiEmbedding.New(*p.openai, s.EmbeddingModel, s.EmbeddingDimension), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", s.EmbeddingProvider)
	}
}

func newLLM(s *config.Settings, p providers) (llm.Provider, llm.VisionProvider, error) {
	switch s.LLMProvider {
	case config.ProviderGemini:
		c := gemini.New(p.gemini, s.TextModel, s.VisionModel)
		return c, c, nil
	case config.ProviderOpenAI:
		c := openaiLLM.New(*p.openai, s.TextModel, s.VisionModel)
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", s.LLMProvider)
	}
}

// NewStore opens the configured vector store backend.
func NewStore(ctx context.Context, s *config.Settings, em embedding.Embedder) (vectorDB.Store, error) {
	switch s.VectorStore {
	case config.StoreChromem:
		return chromemDB.New(s.VectorDBPath, s.CollectionName, s.CompressStore, em)
	case config.StoreQdrant:
		return qdrantDB.New(ctx, qdrantDB.Config{
			Host:           s.QdrantHost,
			Port:           s.QdrantPort,
			APIKey:         s.QdrantAPIKey,
			UseTLS:         s.QdrantUseTLS,
			CollectionName: s.CollectionName,
			Dimension:      s.EmbeddingDimension,
		})
	case config.StorePgvector:
		return pgvectorDB.New(ctx, s.DatabaseURL, s.CollectionName, s.EmbeddingDimension)
	default:
		return nil, fmt.Errorf("unknown vector store %q", s.VectorStore)
	}
}

// JobStores are the job and chat stores behind the HTTP API.
type JobStores struct {
	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
	closers      []func() error
}

func (j *JobStores) Close() error {
	var errs []error
	for _, c := range j.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewJobStores connects to redis, or falls back to in-memory stores when no
// address is configured or redis is offline.
func NewJobStores(ctx context.Context, s *config.Settings) *JobStores {
	if s.RedisAddr != "" {
		jobs, jobsErr := redisStore.New(ctx, s.RedisAddr, s.RedisPassword, config.RedisJobStore)
		messages, messagesErr := redisStore.New(ctx, s.RedisAddr, s.RedisPassword, config.RedisMessageStore)
		if jobsErr == nil && messagesErr == nil {
			return &JobStores{
				JobStore:     store.NewRedisJobStore(jobs),
				MessageStore: store.NewRedisMessageStore(messages),
				closers:      []func() error{jobs.Close, messages.Close},
			}
		}
		for _, rs := range []*redisStore.Store{jobs, messages} {
			if rs != nil {
				_ = rs.Close()
			}
		}
		logger.Error("Redis stores are offline, using in-memory stores", "error", errors.Join(jobsErr, messagesErr))
	}
	return &JobStores{
		JobStore:     store.InitInMemoryJobStore(),
		MessageStore: store.InitMessageStore(),
	}
}
