package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const contentKey = "content"

type Config struct {
	Host           string
	Port           int
	APIKey         string
	UseTLS         bool
	CollectionName string
	Dimension      int
}

type ClientHolder struct {
	QObj       *qdrant.Client
	collection string
	dimension  uint64
	logger     *logger_i.Logger
}

func New(ctx context.Context, cfg Config) (*ClientHolder, error) {
	if cfg.Dimension <= 0 {
		return nil, errors.New("qdrant needs a fixed vector dimension")
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	db := &ClientHolder{
		QObj:       client,
		collection: cfg.CollectionName,
		dimension:  uint64(cfg.Dimension),
		logger:     logger_i.NewLogger("Qdrant").With("collection", cfg.CollectionName),
	}
	if err := db.createCollection(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("could not create collection %s: %w", cfg.CollectionName, err)
	}
	return db, nil
}

// pointID maps a chunk id onto the UUID qdrant requires. The mapping is
// stable so re-adding a chunk overwrites its point.
func pointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(chunkID)).String()
}

func (db *ClientHolder) Add(ctx context.Context, chunks []commonModels.Chunk) (int, error) {
	log := db.logger.With("traceId", config.TraceID(ctx))
	indexable := vectorDB.Indexable(chunks, log)

	added := 0
	for i := 0; i < len(indexable); i += config.UpsertBatchSize {
		end := min(i+config.UpsertBatchSize, len(indexable))
		batch := indexable[i:end]

		points := make([]*qdrant.PointStruct, len(batch))
		for j, c := range batch {
			payload := make(map[string]any, len(c.Metadata)+1)
			for k, v := range c.Metadata {
				payload[k] = v
			}
			payload[contentKey] = c.Content

			points[j] = &qdrant.PointStruct{
				Id:      qdrant.NewID(pointID(c.ID())),
				Vectors: qdrant.NewVectors(c.Embedding...),
				Payload: qdrant.NewValueMap(payload),
			}
		}

		_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: db.collection,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return added, fmt.Errorf("qdrant upsert failed: %w", err)
		}
		added += len(batch)
	}

	log.Info("Added chunks", "added", added, "skipped", len(chunks)-len(indexable))
	return added, nil
}

func (db *ClientHolder) Query(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error) {
	if topK <= 0 {
		return []commonModels.RetrievalResult{}, nil
	}

	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: db.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		db.logger.With("traceId", config.TraceID(ctx)).Error("Error querying Qdrant", "error", err)
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	results := make([]commonModels.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		md := commonModels.Metadata{}
		var content string
		for k, v := range hit.GetPayload() {
			if k == contentKey {
				content = v.GetStringValue()
				continue
			}
			md[k] = v.GetStringValue()
		}
		results = append(results, commonModels.RetrievalResult{
			Content:  content,
			Metadata: md,
			Distance: 1 - hit.GetScore(),
		})
	}
	return vectorDB.SortByDistance(results, topK), nil
}

func (db *ClientHolder) Reset(ctx context.Context) error {
	err := db.QObj.DeleteCollection(ctx, db.collection)
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("could not delete collection %s: %w", db.collection, err)
	}
	if err := db.createCollection(ctx); err != nil {
		return fmt.Errorf("could not recreate collection %s: %w", db.collection, err)
	}
	db.logger.With("traceId", config.TraceID(ctx)).Info("Collection reset")
	return nil
}

func (db *ClientHolder) Count(ctx context.Context) (int, error) {
	n, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: db.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant count failed: %w", err)
	}
	return int(n), nil
}

func (db *ClientHolder) Close() error {
	db.logger.Info("Shutting down Qdrant")
	return db.QObj.Close()
}

func (db *ClientHolder) createCollection(ctx context.Context) error {
	if db.collection == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.QObj.CollectionExists(ctx, db.collection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: db.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     db.dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
