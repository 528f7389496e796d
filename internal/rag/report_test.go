package rag

import (
	"testing"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
)

func TestCollectAndFormatSources(t *testing.T) {
	results := []commonModels.RetrievalResult{
		{Metadata: commonModels.Metadata{commonModels.MetaSource: "data/raw/a.pdf", commonModels.MetaFileName: "a.pdf"}},
		{Metadata: commonModels.Metadata{
			commonModels.MetaSource:       "data/raw/chart.png",
			commonModels.MetaFileName:     "chart.png",
			commonModels.MetaOriginalType: "image",
		}},
		{Metadata: commonModels.Metadata{commonModels.MetaSource: "data/raw/a.pdf", commonModels.MetaFileName: "a.pdf"}},
		{Metadata: commonModels.Metadata{}},
	}

	sources := CollectSources(results)
	want := []string{
		"data/raw/a.pdf",
		"data/raw/chart.png (Image description from chart.png)",
		"Unknown Source",
	}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("source %d: expected %q, got %q", i, want[i], sources[i])
		}
	}

	formatted := FormatSources(sources)
	expected := "\nSources:\n- data/raw/a.pdf\n- data/raw/chart.png (Image description from chart.png)\n- Unknown Source\n"
	if formatted != expected {
		t.Errorf("expected %q, got %q", expected, formatted)
	}

	if FormatSources(nil) != "" {
		t.Error("no sources means no appendix")
	}
}
