package vectorDB

import (
	"context"
	"sort"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

// Store is a persistent, named collection of embedded chunks keyed by
// chunk id. Add upserts: an existing id is overwritten.
type Store interface {
	Add(ctx context.Context, chunks []commonModels.Chunk) (int, error)
	Query(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error)
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Indexable returns the chunks that can be stored: an id, content and an
// embedding are all required. The others are logged and left out.
func Indexable(chunks []commonModels.Chunk, log *logger_i.Logger) []commonModels.Chunk {
	out := make([]commonModels.Chunk, 0, len(chunks))
	for _, c := range chunks {
		switch {
		case c.ID() == "":
			log.Warn("Skipping chunk without id", "source", c.Source())
		case c.Content == "":
			log.Warn("Skipping chunk without content", "chunk_id", c.ID())
		case !c.HasEmbedding():
			log.Warn("Skipping chunk without embedding", "chunk_id", c.ID())
		default:
			out = append(out, c)
		}
	}
	return out
}

// SortByDistance orders results nearest first and trims them to topK.
func SortByDistance(results []commonModels.RetrievalResult, topK int) []commonModels.RetrievalResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
