package embedding

import (
	"context"
	"strings"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

// Embedder turns text into a vector. The same model must be used for
// documents and queries.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
}

// EmbedChunks embeds chunks one at a time. A chunk whose call fails keeps an
// empty embedding and the failure is returned; the store skips such chunks.
func EmbedChunks(ctx context.Context, e Embedder, chunks []commonModels.Chunk) ([]commonModels.Chunk, []error) {
	log := logger_i.NewLogger("embedding")

	var errs []error
	for i := range chunks {
		c := &chunks[i]
		if c.Type != commonModels.TextChunk && c.Type != commonModels.ImageDescription {
			log.Warn("Skipping chunk of unexpected type", "chunk_id", c.ID(), "type", c.Type)
			errs = append(errs, ragerr.New(ragerr.KindEmbed, c.ID(), ragerr.ErrUnsupported))
			continue
		}

		if strings.TrimSpace(c.Content) == "" {
			log.Warn("Skipping chunk without content", "chunk_id", c.ID())
			errs = append(errs, ragerr.New(ragerr.KindEmbed, c.ID(), ragerr.ErrEmptyContent))
			c.Embedding = nil
			continue
		}

		vector, err := e.GetEmbedding(ctx, c.Content)
		if err == nil && len(vector) == 0 {
			err = ragerr.ErrNoEmbedding
		}
		if err != nil {
			log.Warn("Failed to embed chunk", "chunk_id", c.ID(), "error", err)
			errs = append(errs, ragerr.New(ragerr.KindEmbed, c.ID(), err))
			c.Embedding = nil
			continue
		}
		c.Embedding = vector
	}
	return chunks, errs
}
