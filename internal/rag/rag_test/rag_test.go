package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB/chromemDB"
)

func newChromemService(t *testing.T, e *MockEmbedder, l *MockLLM) (rag.Service, *chromemDB.Store) {
	t.Helper()
	store, err := chromemDB.New("", "test_collection", false, e)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return rag.NewService(store, l, l, e, rag.DefaultOptions()), store
}

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestIndex_TextAndCorruptPDF(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte(strings.Repeat("abcdefghij", 5)))
	writeFile(t, filepath.Join(dir, "broken.pdf"), []byte("definitely not a pdf"))

	e := &MockEmbedder{}
	l := &MockLLM{}
	s, store := newChromemService(t, e, l)
	ctx := testContext()

	report := s.Index(ctx, dir)

	if report.Err != nil {
		t.Fatalf("unexpected error: %v", report.Err)
	}
	if report.Loaded != 1 || report.Chunked != 1 || report.Embedded != 1 || report.Added != 1 {
		t.Errorf("unexpected report %+v", report)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("expected exactly one stored chunk, got %d", n)
	}
	if len(report.Skipped) != 1 {
		t.Fatalf("expected the pdf to be reported as skipped, got %+v", report.Skipped)
	}
	if report.Skipped[0].Kind != ragerr.KindLoad || filepath.Base(report.Skipped[0].Item) != "broken.pdf" {
		t.Errorf("unexpected skipped item %+v", report.Skipped[0])
	}
}

func TestIndex_ImagesAndEmbeddingFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "chart.png"), []byte("png-bytes"))
	writeFile(t, filepath.Join(dir, "photo.jpg"), []byte("jpg-bytes"))
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("keep me"))
	writeFile(t, filepath.Join(dir, "b.txt"), []byte("embedding fails for me"))

	e := &MockEmbedder{}
	e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "fails") {
			return nil, errors.New("quota")
		}
		return []float32{1, float32(len(text))}, nil
	}
	l := &MockLLM{OnDescribeImage: func(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
		if mimeType == "image/jpeg" {
			return "", errors.New("vision unavailable")
		}
		return "A chart of revenue.", nil
	}}
	s, store := newChromemService(t, e, l)
	ctx := testContext()

	report := s.Index(ctx, dir)

	if report.Loaded != 4 || report.Described != 1 || report.Chunked != 3 || report.Embedded != 2 || report.Added != 2 {
		t.Errorf("unexpected report %+v", report)
	}
	if n, _ := store.Count(ctx); n != 2 {
		t.Errorf("expected 2 stored chunks, got %d", n)
	}

	kinds := map[ragerr.Kind]int{}
	for _, item := range report.Skipped {
		kinds[item.Kind]++
	}
	if kinds[ragerr.KindDescribe] != 1 || kinds[ragerr.KindEmbed] != 1 {
		t.Errorf("expected one describe and one embed skip, got %v", kinds)
	}
}

func TestIndex_StoreFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("some text"))

	store := &MockStore{OnAdd: func(ctx context.Context, chunks []commonModels.Chunk) (int, error) {
		return 0, errors.New("disk full")
	}}
	l := &MockLLM{}
	s := rag.NewService(store, l, l, &MockEmbedder{}, rag.DefaultOptions())

	report := s.Index(testContext(), dir)

	if kind, _ := ragerr.KindOf(report.Err); kind != ragerr.KindStore {
		t.Errorf("expected a store error, got %v", report.Err)
	}
}

func TestQuery_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		index           bool
		embedErr        error
		llmErr          error
		expectedPrefix  string
		expectedSources bool
		expectedCalls   int
		expectedKind    ragerr.Kind
	}{
		{
			name:           "Empty_Store",
			expectedPrefix: config.NoRelevantInformationMessage,
			expectedCalls:  0,
		},
		{
			name:            "Success_Full_Flow",
			index:           true,
			expectedPrefix:  "final answer",
			expectedSources: true,
			expectedCalls:   1,
		},
		{
			name:           "Failure_Query_Embedding",
			index:          true,
			embedErr:       errors.New("api limit"),
			expectedPrefix: config.NoRelevantInformationMessage,
			expectedCalls:  0,
			expectedKind:   ragerr.KindEmbed,
		},
		{
			name:            "Failure_LLM_Generation",
			index:           true,
			llmErr:          errors.New("provider down"),
			expectedPrefix:  config.GenerationErrorMessage,
			expectedSources: true,
			expectedCalls:   1,
			expectedKind:    ragerr.KindGenerate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "report.txt"), []byte("Revenue grew twelve percent."))

			e := &MockEmbedder{}
			l := &MockLLM{OnGenerate: func(ctx context.Context, prompt string) (string, error) {
				if tt.llmErr != nil {
					return "", tt.llmErr
				}
				if !strings.Contains(prompt, "Revenue grew twelve percent.") {
					t.Errorf("prompt is missing the retrieved context: %s", prompt)
				}
				return "final answer", nil
			}}
			s, _ := newChromemService(t, e, l)
			ctx := testContext()

			if tt.index {
				if report := s.Index(ctx, dir); report.Added != 1 {
					t.Fatalf("setup failed: %+v", report)
				}
			}
			if tt.embedErr != nil {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, tt.embedErr
				}
			}

			result := s.Query(ctx, "How did revenue change?")

			if !strings.HasPrefix(result.Answer, tt.expectedPrefix) {
				t.Errorf("expected answer to start with %q, got %q", tt.expectedPrefix, result.Answer)
			}
			if l.GenerateCalls != tt.expectedCalls {
				t.Errorf("expected %d generation calls, got %d", tt.expectedCalls, l.GenerateCalls)
			}
			wantSources := "\nSources:\n- " + filepath.Join(dir, "report.txt") + "\n"
			if tt.expectedSources && !strings.HasSuffix(result.Answer, wantSources) {
				t.Errorf("expected sources appendix %q, got %q", wantSources, result.Answer)
			}
			if !tt.expectedSources && strings.Contains(result.Answer, "Sources:") {
				t.Errorf("unexpected sources in %q", result.Answer)
			}
			kind, _ := ragerr.KindOf(result.Err)
			if kind != tt.expectedKind {
				t.Errorf("expected error kind %q, got %q", tt.expectedKind, kind)
			}
		})
	}
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), []byte("some text"))

	e := &MockEmbedder{}
	l := &MockLLM{}
	s, _ := newChromemService(t, e, l)
	ctx := testContext()

	s.Index(ctx, dir)
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Errorf("expected an empty store, got %d (%v)", n, err)
	}
	if result := s.Query(ctx, "anything"); result.Answer != config.NoRelevantInformationMessage {
		t.Errorf("expected the no-information answer after reset, got %q", result.Answer)
	}

	failing := rag.NewService(&MockStore{OnReset: func(ctx context.Context) error { return errors.New("locked") }}, l, l, e, rag.DefaultOptions())
	if kind, _ := ragerr.KindOf(failing.Reset(ctx)); kind != ragerr.KindStore {
		t.Error("expected a store error from a failing reset")
	}
}

func TestIndex_SameFileNameInTwoFolders(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatal(err)
		}
		writeFile(t, filepath.Join(dir, sub, "notes.txt"), []byte("notes from folder "+sub))
	}

	s, store := newChromemService(t, &MockEmbedder{}, &MockLLM{})
	ctx := testContext()

	for run := 1; run <= 2; run++ {
		report := s.Index(ctx, dir)

		if report.Err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, report.Err)
		}
		if report.Chunked != 2 || report.Embedded != 2 || report.Added != 1 {
			t.Errorf("run %d: expected 2 chunks and 1 written, got %+v", run, report)
		}
		if n, _ := store.Count(ctx); n != 1 {
			t.Errorf("run %d: expected one stored entry, got %d", run, n)
		}
		if len(report.Skipped) != 1 {
			t.Fatalf("run %d: expected the colliding chunk to be reported, got %+v", run, report.Skipped)
		}
		skipped := report.Skipped[0]
		if skipped.Kind != ragerr.KindStore || skipped.Item != filepath.Join(dir, "b", "notes.txt") {
			t.Errorf("run %d: unexpected skipped item %+v", run, skipped)
		}
		if !strings.Contains(skipped.Reason, ragerr.ErrDuplicateID.Error()) || !strings.Contains(skipped.Reason, filepath.Join(dir, "a", "notes.txt")) {
			t.Errorf("run %d: reason should name the kept file, got %q", run, skipped.Reason)
		}
	}
}
