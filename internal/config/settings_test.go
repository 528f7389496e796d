package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GEMINI_API_KEY", "OPENAI_API_KEY", "LLM_PROVIDER", "EMBEDDING_PROVIDER", "TEXT_MODEL",
		"VISION_MODEL", "EMBEDDING_MODEL", "DATA_DIR", "VECTOR_STORE", "VECTOR_DB_PATH",
		"COLLECTION_NAME", "QDRANT_HOST", "QDRANT_PORT", "DATABASE_URL", "CHUNK_SIZE",
		"CHUNK_OVERLAP", "TOP_K", "EMBEDDING_DIMENSION", "IS_PROD", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")

	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if s.ChunkSize != DefaultChunkSize || s.ChunkOverlap != DefaultChunkOverlap || s.TopK != DefaultTopK {
		t.Errorf("unexpected pipeline defaults %+v", s)
	}
	if s.VectorStore != StoreChromem || s.VectorDBPath != DefaultVectorDBPath || s.CollectionName != DefaultCollection {
		t.Errorf("unexpected store defaults %+v", s)
	}
	if s.TextModel != GeminiTextModel || s.EmbeddingModel != GoogleEmbeddingModel || s.EmbeddingDimension != EmbeddingOutputDimensionality {
		t.Errorf("unexpected model defaults %+v", s)
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	yamlBody := "llm_provider: openai\nembedding_provider: openai\nopenai_api_key: from-file\nchunk_size: 500\nchunk_overlap: 50\ntop_k: 3\n"
	if err := os.WriteFile(path, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOP_K", "8")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.ChunkSize != 500 || s.ChunkOverlap != 50 {
		t.Errorf("file values not applied: %+v", s)
	}
	if s.TopK != 8 {
		t.Errorf("environment should override the file, got top_k %d", s.TopK)
	}
	if s.TextModel != OpenAITextModel || s.EmbeddingModel != OpenAIEmbeddingModel {
		t.Errorf("expected openai model defaults, got %q %q", s.TextModel, s.EmbeddingModel)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("CHUNK_SIZE", "big")
	if _, err := Load(""); err == nil {
		t.Error("expected an error for a non-numeric CHUNK_SIZE")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Settings {
		s := Default()
		s.GeminiAPIKey = "key"
		s.applyModelDefaults()
		return s
	}

	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{name: "Valid", mutate: func(s *Settings) {}},
		{name: "Overlap_Not_Below_Size", mutate: func(s *Settings) { s.ChunkOverlap = s.ChunkSize }, wantErr: "overlap"},
		{name: "Zero_TopK", mutate: func(s *Settings) { s.TopK = 0 }, wantErr: "top k"},
		{name: "Missing_Key", mutate: func(s *Settings) { s.GeminiAPIKey = "" }, wantErr: "GEMINI_API_KEY"},
		{name: "Unknown_Provider", mutate: func(s *Settings) { s.LLMProvider = "claude" }, wantErr: "unknown provider"},
		{name: "Pgvector_Needs_URL", mutate: func(s *Settings) { s.VectorStore = StorePgvector }, wantErr: "DATABASE_URL"},
		{name: "Unknown_Store", mutate: func(s *Settings) { s.VectorStore = "faiss" }, wantErr: "unknown vector store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTraceID(t *testing.T) {
	if TraceID(context.Background()) != "" {
		t.Error("expected empty trace id")
	}
	ctx := context.WithValue(context.Background(), TRACE_ID_KEY, "abc")
	if TraceID(ctx) != "abc" {
		t.Error("expected trace id from context")
	}
}
