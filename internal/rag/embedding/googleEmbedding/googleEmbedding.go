package googleEmbedding

import (
	"context"
	"fmt"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag/breaker"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"google.golang.org/genai"
)

type Client struct {
	genAi     *genai.Client
	model     string
	dimension *int32
	breaker   *breaker.Breaker
	logger    *logger_i.Logger
}

// New wraps a Gemini client as an embedding.Embedder. A dimension of zero
// leaves the model's default output size.
func New(c *genai.Client, model string, dimension int) *Client {
	var dim *int32
	if dimension > 0 {
		d := int32(dimension)
		dim = &d
	}
	logger := logger_i.NewLogger("google_embedding")
	logger.Info("Google Embedding client created", "model", model)
	return &Client{
		genAi:     c,
		model:     model,
		dimension: dim,
		breaker:   breaker.New("google_embedding"),
		logger:    logger,
	}
}

func (c *Client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	log := c.logger.With("traceId", config.TraceID(ctx))

	result, err := breaker.Do(c.breaker, func() (*genai.EmbedContentResponse, error) {
		return c.genAi.Models.EmbedContent(ctx, c.model, genai.Text(text), &genai.EmbedContentConfig{OutputDimensionality: c.dimension})
	})
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, fmt.Errorf("google embedding: %w", err)
	}
	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil || len(result.Embeddings[0].Values) == 0 {
		return nil, ragerr.ErrNoEmbedding
	}
	return result.Embeddings[0].Values, nil
}
