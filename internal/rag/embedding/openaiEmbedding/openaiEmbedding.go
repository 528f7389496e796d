package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag/breaker"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/openai/openai-go"
)

type Client struct {
	openAI    openai.Client
	model     string
	dimension int
	breaker   *breaker.Breaker
	logger    *logger_i.Logger
}

func New(c openai.Client, model string, dimension int) *Client {
	logger := logger_i.NewLogger("openai_embedding")
	logger.Info("OpenAI Embedding client created", "model", model)
	return &Client{
		openAI:    c,
		model:     model,
		dimension: dimension,
		breaker:   breaker.New("openai_embedding"),
		logger:    logger,
	}
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", config.TraceID(ctx))

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.model),
	}
	if c.dimension > 0 {
		params.Dimensions = openai.Int(int64(c.dimension))
	}

	resp, err := breaker.Do(c.breaker, func() (*openai.CreateEmbeddingResponse, error) {
		return c.openAI.Embeddings.New(ctx, params)
	})
	if err != nil {
		log.Error("Error getting Embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("openai embedding: %w", err)
	}
	if resp == nil || len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, ragerr.ErrNoEmbedding
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
