package retrieval

import (
	"context"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/embedding"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

type Retriever struct {
	embedder embedding.Embedder
	store    vectorDB.Store
	logger   *logger_i.Logger
}

func NewRetriever(embedder embedding.Embedder, store vectorDB.Store) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		logger:   logger_i.NewLogger("retriever"),
	}
}

// Retrieve embeds the query and returns the topK nearest chunks as the store
// reports them. topK <= 0 means the default.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]commonModels.RetrievalResult, error) {
	log := r.logger.With("traceId", config.TraceID(ctx))
	if topK <= 0 {
		topK = config.DefaultTopK
	}

	vector, err := r.embedder.GetEmbedding(ctx, query)
	if err == nil && len(vector) == 0 {
		err = ragerr.ErrNoEmbedding
	}
	if err != nil {
		log.Error("Failed to embed query", "error", err)
		return []commonModels.RetrievalResult{}, ragerr.New(ragerr.KindEmbed, "query", err)
	}

	results, err := r.store.Query(ctx, vector, topK)
	if err != nil {
		log.Error("Vector store query failed", "error", err)
		return []commonModels.RetrievalResult{}, ragerr.New(ragerr.KindRetrieve, "query", err)
	}
	log.Debug("Retrieved chunks", "count", len(results))
	return results, nil
}
