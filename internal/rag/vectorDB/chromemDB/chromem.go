package chromemDB

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/embedding"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/philippgille/chromem-go"
)

// Store is an embedded, on-disk vector store. Similarity is cosine and the
// reported distance is 1 - similarity.
type Store struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embedFunc  chromem.EmbeddingFunc
	logger     *logger_i.Logger
}

// New opens (or creates) the database at path and the named collection.
// An empty path keeps everything in memory. The embedder is only consulted
// by chromem for documents added without a vector, which Add never does.
func New(path, collectionName string, compress bool, embedder embedding.Embedder) (*Store, error) {
	var db *chromem.DB
	if path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to open chromem db at %s: %w", path, err)
		}
	}

	s := &Store{
		db:        db,
		name:      collectionName,
		embedFunc: embedFunc(embedder),
		logger:    logger_i.NewLogger("chromem").With("collection", collectionName),
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	s.logger.Info("Vector store ready", "path", path, "count", s.collection.Count())
	return s, nil
}

func embedFunc(embedder embedding.Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		if embedder == nil {
			return nil, errors.New("no embedder configured")
		}
		return embedder.GetEmbedding(ctx, text)
	}
}

func (s *Store) open() error {
	c, err := s.db.GetOrCreateCollection(s.name, nil, s.embedFunc)
	if err != nil {
		return fmt.Errorf("failed to open collection %s: %w", s.name, err)
	}
	s.collection = c
	return nil
}

func (s *Store) Add(ctx context.Context, chunks []commonModels.Chunk) (int, error) {
	log := s.logger.With("traceId", config.TraceID(ctx))
	indexable := vectorDB.Indexable(chunks, log)

	s.mu.RLock()
	defer s.mu.RUnlock()

	added := 0
	for _, c := range indexable {
		doc := chromem.Document{
			ID:        c.ID(),
			Metadata:  c.Metadata.Clone(),
			Embedding: c.Embedding,
			Content:   c.Content,
		}
		// AddDocument overwrites an existing id
		if err := s.collection.AddDocument(ctx, doc); err != nil {
			return added, fmt.Errorf("failed to add chunk %s: %w", c.ID(), err)
		}
		added++
	}
	log.Info("Added chunks", "added", added, "skipped", len(chunks)-len(indexable))
	return added, nil
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := s.collection.Count()
	if count == 0 || topK <= 0 {
		return []commonModels.RetrievalResult{}, nil
	}
	// chromem rejects nResults above the collection size
	n := min(topK, count)

	hits, err := s.collection.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query failed: %w", err)
	}

	results := make([]commonModels.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, commonModels.RetrievalResult{
			Content:  h.Content,
			Metadata: commonModels.Metadata(h.Metadata).Clone(),
			Distance: 1 - h.Similarity,
		})
	}
	return vectorDB.SortByDistance(results, topK), nil
}

// Reset deletes the collection, files included, and creates it again empty.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", s.name, err)
	}
	if err := s.open(); err != nil {
		return err
	}
	s.logger.With("traceId", config.TraceID(ctx)).Info("Collection reset")
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection.Count(), nil
}

// Close is a no-op; chromem writes every document as it is added.
func (s *Store) Close() error {
	return nil
}
