package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

func newTestClient(t *testing.T, content string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"cmpl-1","object":"chat.completion","created":1,"model":"gpt-test",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%q}}]}`, content)
	}))
	t.Cleanup(srv.Close)

	c := openai.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(srv.URL+"/"),
		option.WithMaxRetries(0),
	)
	return New(c, "gpt-test", "gpt-test")
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expected    string
		expectedErr error
	}{
		{name: "Text_Returned_Verbatim", content: "  Revenue grew.\n", expected: "  Revenue grew.\n"},
		{name: "Blank_Is_Empty_Response", content: " \n\t", expectedErr: ragerr.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestClient(t, tt.content).Generate(context.Background(), "question")
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
