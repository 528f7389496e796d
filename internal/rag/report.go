package rag

import (
	"strings"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
)

type SkippedItem struct {
	Item   string      `json:"item"`
	Kind   ragerr.Kind `json:"kind"`
	Reason string      `json:"reason"`
}

// IndexReport lists what an index run produced and everything it dropped.
type IndexReport struct {
	Directory string        `json:"directory"`
	Loaded    int           `json:"loaded"`
	Described int           `json:"described"`
	Chunked   int           `json:"chunked"`
	Embedded  int           `json:"embedded"`
	Added     int           `json:"added"`
	Skipped   []SkippedItem `json:"skipped,omitempty"`
	Err       error         `json:"-"`
}

func (r *IndexReport) skip(err error) {
	item := SkippedItem{Item: ragerr.ItemOf(err), Reason: err.Error()}
	if kind, ok := ragerr.KindOf(err); ok {
		item.Kind = kind
	}
	r.Skipped = append(r.Skipped, item)
}

type QueryResult struct {
	Answer  string                         `json:"answer"`
	Sources []string                       `json:"sources"`
	Results []commonModels.RetrievalResult `json:"-"`
	Err     error                          `json:"-"`
}

// CollectSources returns one citation per distinct source, in retrieval
// order. Image descriptions are annotated with the image they came from.
func CollectSources(results []commonModels.RetrievalResult) []string {
	seen := make(map[string]bool)
	var sources []string
	for _, r := range results {
		source := r.Metadata[commonModels.MetaSource]
		if source == "" {
			source = r.Metadata[commonModels.MetaFileName]
		}
		if source == "" {
			source = config.UnknownSource
		}
		if seen[source] {
			continue
		}
		seen[source] = true

		if r.Metadata[commonModels.MetaOriginalType] == string(commonModels.Image) {
			source += " (Image description from " + r.Metadata[commonModels.MetaFileName] + ")"
		}
		sources = append(sources, source)
	}
	return sources
}

// FormatSources renders the appendix added to every generated answer.
func FormatSources(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nSources:\n")
	for _, s := range sources {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String()
}
