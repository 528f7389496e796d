package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
)

type stubService struct {
	report rag.IndexReport
	result rag.QueryResult
}

func (s *stubService) Index(ctx context.Context, dir string) rag.IndexReport { return s.report }
func (s *stubService) Query(ctx context.Context, q string) rag.QueryResult   { return s.result }
func (s *stubService) Reset(ctx context.Context) error                       { return nil }
func (s *stubService) Count(ctx context.Context) (int, error)                { return 0, nil }

func TestRunIndexPrintsSkippedItems(t *testing.T) {
	svc := &stubService{report: rag.IndexReport{
		Directory: "data/raw",
		Loaded:    1,
		Added:     1,
		Skipped:   []rag.SkippedItem{{Item: "data/raw/broken.pdf", Kind: ragerr.KindLoad, Reason: "malformed pdf"}},
	}}
	var out bytes.Buffer

	if err := runIndex(context.Background(), svc, "data/raw", &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "[load] data/raw/broken.pdf: malformed pdf") {
		t.Errorf("skipped item missing from output:\n%s", out.String())
	}

	svc.report.Err = errors.New("store down")
	if err := runIndex(context.Background(), svc, "data/raw", &out); err == nil {
		t.Error("expected the store error to be returned")
	}
}

func TestRunQueryPrintsFallbackAnswer(t *testing.T) {
	svc := &stubService{result: rag.QueryResult{
		Answer: "I couldn't find any relevant information for your query.",
		Err:    errors.New("embed failed"),
	}}
	var out bytes.Buffer

	if err := runQuery(context.Background(), svc, "anything", &out); err != nil {
		t.Fatalf("degraded answers are not command failures: %v", err)
	}
	if strings.TrimSpace(out.String()) != svc.result.Answer {
		t.Errorf("unexpected output %q", out.String())
	}
}

func executeRoot(t *testing.T, svc rag.Service, args ...string) (string, error) {
	t.Helper()
	c := &cli{svc: svc, settings: &config.Settings{DataDir: "data/raw"}}
	root := newRootCmd(c)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestRootCommands(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expectedOut string
		expectErr   bool
	}{
		{name: "Index_Default_Dir", args: []string{"index"}, expectedOut: "Indexed data/raw"},
		{name: "Query_Joins_Args", args: []string{"query", "how", "much"}, expectedOut: "an answer"},
		{name: "Query_Needs_Question", args: []string{"query"}, expectErr: true},
		{name: "Reset", args: []string{"reset"}, expectedOut: "Knowledge base cleared."},
		{name: "Count", args: []string{"count"}, expectedOut: "0 chunks stored"},
		{name: "Reset_Rejects_Args", args: []string{"reset", "now"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{
				report: rag.IndexReport{Directory: "data/raw"},
				result: rag.QueryResult{Answer: "an answer"},
			}
			out, err := executeRoot(t, svc, tt.args...)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected an error, got output %q", out)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.expectedOut) {
				t.Errorf("expected %q in output, got %q", tt.expectedOut, out)
			}
		})
	}
}
