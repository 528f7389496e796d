package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag/breaker"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"google.golang.org/genai"
)

// Client generates answers and image descriptions with Gemini.
type Client struct {
	client      *genai.Client
	textModel   string
	visionModel string
	breaker     *breaker.Breaker
	logger      *logger_i.Logger
}

func New(c *genai.Client, textModel, visionModel string) *Client {
	logger := logger_i.NewLogger("llm_gemini")
	logger.Info("Gemini client created", "text_model", textModel, "vision_model", visionModel)
	return &Client{
		client:      c,
		textModel:   textModel,
		visionModel: visionModel,
		breaker:     breaker.New("llm_gemini"),
		logger:      logger,
	}
}

// BLOCK_NONE for every harm category
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return settings
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.textModel, genai.Text(prompt))
}

func (c *Client) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image, mimeType),
		}, genai.RoleUser),
	}
	return c.generate(ctx, c.visionModel, contents)
}

func (c *Client) generate(ctx context.Context, model string, contents []*genai.Content) (string, error) {
	log := c.logger.With("traceId", config.TraceID(ctx), "model", model)

	contentConfig := &genai.GenerateContentConfig{
		SafetySettings: safetySettings(),
	}

	result, err := breaker.Do(c.breaker, func() (*genai.GenerateContentResponse, error) {
		return c.client.Models.GenerateContent(ctx, model, contents, contentConfig)
	})
	if err != nil {
		log.Error("Gemini call failed", "error", err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		log.Warn("Gemini returned an empty response")
		return "", ragerr.ErrEmptyResponse
	}
	return text, nil
}
