package chromemDB

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
)

func chunk(id, content string, vector []float32) commonModels.Chunk {
	return commonModels.Chunk{
		Document: commonModels.Document{
			Content: content,
			Type:    commonModels.TextChunk,
			Metadata: commonModels.Metadata{
				commonModels.MetaChunkID:  id,
				commonModels.MetaSource:   "data/raw/" + id,
				commonModels.MetaFileName: id,
			},
		},
		Embedding: vector,
	}
}

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	s, err := New(path, "test_collection", false, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func TestAddSkipsChunksWithoutEmbedding(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	added, err := s.Add(ctx, []commonModels.Chunk{
		chunk("a", "alpha", []float32{1, 0, 0}),
		chunk("b", "beta", nil),
		chunk("c", "", []float32{0, 1, 0}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 chunk added, got %d", added)
	}
	if n, _ := s.Count(ctx); n != 1 {
		t.Errorf("expected 1 stored chunk, got %d", n)
	}
}

func TestQueryOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	_, err := s.Add(ctx, []commonModels.Chunk{
		chunk("far", "far away", []float32{0, 1, 0}),
		chunk("near", "nearest", []float32{1, 0, 0}),
		chunk("mid", "in between", []float32{0.8, 0.6, 0}),
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		topK     int
		expected int
	}{
		{"fewer than stored", 2, 2},
		{"more than stored", 10, 3},
		{"zero", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.Query(ctx, []float32{1, 0, 0}, tt.topK)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tt.expected {
				t.Fatalf("expected %d results, got %d", tt.expected, len(results))
			}
			for i := 1; i < len(results); i++ {
				if results[i].Distance < results[i-1].Distance {
					t.Errorf("results not sorted by distance: %v", results)
				}
			}
			if len(results) > 0 && results[0].Content != "nearest" {
				t.Errorf("expected nearest first, got %q", results[0].Content)
			}
			if len(results) > 0 && results[0].Metadata[commonModels.MetaSource] != "data/raw/near" {
				t.Errorf("metadata not returned: %v", results[0].Metadata)
			}
		})
	}
}

func TestAddUpsertsById(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	if _, err := s.Add(ctx, []commonModels.Chunk{chunk("doc.txt_chunk_0", "old text", []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, []commonModels.Chunk{chunk("doc.txt_chunk_0", "new text", []float32{1, 0})}); err != nil {
		t.Fatal(err)
	}

	if n, _ := s.Count(ctx); n != 1 {
		t.Fatalf("expected re-adding the same id to overwrite, got %d entries", n)
	}
	results, err := s.Query(ctx, []float32{1, 0}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Content != "new text" {
		t.Errorf("expected the newer content, got %+v", results)
	}
}

func TestResetLeavesEmptyQueryableStore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, filepath.Join(t.TempDir(), "db"))

	if _, err := s.Add(ctx, []commonModels.Chunk{chunk("a", "alpha", []float32{1, 0, 0})}); err != nil {
		t.Fatal(err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if n, _ := s.Count(ctx); n != 0 {
		t.Errorf("expected an empty store, got %d", n)
	}
	results, err := s.Query(ctx, []float32{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("query after reset failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}

	if _, err := s.Add(ctx, []commonModels.Chunk{chunk("b", "beta", []float32{0, 1, 0})}); err != nil {
		t.Fatalf("add after reset failed: %v", err)
	}
}

func TestPersistentStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db")

	s := newTestStore(t, path)
	if _, err := s.Add(ctx, []commonModels.Chunk{chunk("a", "alpha", []float32{1, 0, 0})}); err != nil {
		t.Fatal(err)
	}

	reopened := newTestStore(t, path)
	if n, _ := reopened.Count(ctx); n != 1 {
		t.Errorf("expected the chunk to be persisted, got %d", n)
	}
}
