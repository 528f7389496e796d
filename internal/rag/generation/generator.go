package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/llm"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

type Generator struct {
	provider llm.Provider
	logger   *logger_i.Logger
}

func NewGenerator(provider llm.Provider) *Generator {
	return &Generator{
		provider: provider,
		logger:   logger_i.NewLogger("generator"),
	}
}

// BuildPrompt joins the retrieved contents, in retrieval order, into the
// answer template.
func BuildPrompt(question string, results []commonModels.RetrievalResult) string {
	contents := make([]string, 0, len(results))
	for _, r := range results {
		contents = append(contents, r.Content)
	}
	return fmt.Sprintf(config.AnswerPromptTemplate, strings.Join(contents, "\n\n"), question)
}

// GenerateAnswer makes a single model call. With nothing retrieved it
// answers with a fixed message and never calls the model; a failed call is
// answered with a fixed error message and the error is returned alongside.
func (g *Generator) GenerateAnswer(ctx context.Context, question string, results []commonModels.RetrievalResult) (string, error) {
	log := g.logger.With("traceId", config.TraceID(ctx))

	if len(results) == 0 {
		return config.InsufficientContextMessage, nil
	}

	answer, err := g.provider.Generate(ctx, BuildPrompt(question, results))
	if err == nil && strings.TrimSpace(answer) == "" {
		err = ragerr.ErrEmptyResponse
	}
	if err != nil {
		log.Error("Failed to generate answer", "error", err)
		return config.GenerationErrorMessage, ragerr.New(ragerr.KindGenerate, "answer", err)
	}
	return answer, nil
}
