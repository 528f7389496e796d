package rag_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
)

// MockStore implements vectorDB.Store
type MockStore struct {
	OnAdd   func(ctx context.Context, chunks []commonModels.Chunk) (int, error)
	OnQuery func(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error)
	OnReset func(ctx context.Context) error
}

func (m *MockStore) Add(ctx context.Context, chunks []commonModels.Chunk) (int, error) {
	if m.OnAdd != nil {
		return m.OnAdd(ctx, chunks)
	}
	return len(chunks), nil
}

func (m *MockStore) Query(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error) {
	if m.OnQuery != nil {
		return m.OnQuery(ctx, vector, topK)
	}
	return []commonModels.RetrievalResult{}, nil
}

func (m *MockStore) Reset(ctx context.Context) error {
	if m.OnReset != nil {
		return m.OnReset(ctx)
	}
	return nil
}

func (m *MockStore) Count(ctx context.Context) (int, error) { return 0, nil }
func (m *MockStore) Close() error                           { return nil }

// MockEmbedder returns a small vector derived from the text unless
// OnGetEmbedding is set.
type MockEmbedder struct {
	OnGetEmbedding func(ctx context.Context, text string) ([]float32, error)
	Calls          int
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.Calls++
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, text)
	}
	if text == "" {
		return nil, errors.New("empty text")
	}
	return []float32{float32(len(text)%7) + 1, float32(text[0]%5) + 1, 1}, nil
}

// MockLLM implements llm.Provider and llm.VisionProvider
type MockLLM struct {
	OnGenerate      func(ctx context.Context, prompt string) (string, error)
	OnDescribeImage func(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	GenerateCalls   int
	DescribeCalls   int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.GenerateCalls++
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, prompt)
	}
	return "mocked llm response", nil
}

func (m *MockLLM) DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	m.DescribeCalls++
	if m.OnDescribeImage != nil {
		return m.OnDescribeImage(ctx, prompt, image, mimeType)
	}
	return fmt.Sprintf("an image of %d bytes", len(image)), nil
}
