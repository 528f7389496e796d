package openaiLLM

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag/breaker"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/openai/openai-go"
)

type Client struct {
	client      openai.Client
	textModel   string
	visionModel string
	breaker     *breaker.Breaker
	logger      *logger_i.Logger
}

func New(c openai.Client, textModel, visionModel string) *Client {
	logger := logger_i.NewLogger("llm_openai")
	logger.Info("OpenAI client created", "text_model", textModel, "vision_model", visionModel)
	return &Client{
		client:      c,
		textModel:   textModel,
		visionModel: visionModel,
		breaker:     breaker.New("llm_openai"),
		logger:      logger,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.textModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
}

// DescribeImage sends the image inline as a data URL.
func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
	}
	return c.complete(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.visionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(parts),
		},
	})
}

func (c *Client) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	log := c.logger.With("traceId", config.TraceID(ctx), "model", params.Model)

	resp, err := breaker.Do(c.breaker, func() (*openai.ChatCompletion, error) {
		return c.client.Chat.Completions.New(ctx, params)
	})
	if err != nil {
		log.Error("OpenAI call failed", "error", err)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ragerr.ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		log.Warn("OpenAI returned an empty response")
		return "", ragerr.ErrEmptyResponse
	}
	return text, nil
}
