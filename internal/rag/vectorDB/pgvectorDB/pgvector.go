package pgvectorDB

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Store keeps one table per collection. Distance is pgvector's cosine
// distance operator.
type Store struct {
	pool      *pgxpool.Pool
	table     string
	dimension int
	logger    *logger_i.Logger
}

func New(ctx context.Context, databaseURL, collectionName string, dimension int) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach postgres: %w", err)
	}

	s := &Store{
		pool:      pool,
		table:     tableName(collectionName),
		dimension: dimension,
		logger:    logger_i.NewLogger("pgvector").With("collection", collectionName),
	}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// tableName quotes the collection name so it can be used as an identifier.
func tableName(collectionName string) string {
	return pgx.Identifier{collectionName}.Sanitize()
}

func (s *Store) vectorType() string {
	if s.dimension > 0 {
		return fmt.Sprintf("vector(%d)", s.dimension)
	}
	return "vector"
}

func (s *Store) ensureTable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to enable pgvector: %w", err)
	}
	if _, err := s.pool.Exec(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *Store) createTableSQL() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		embedding %s NOT NULL,
		content TEXT NOT NULL,
		metadata JSONB NOT NULL DEFAULT '{}'::jsonb
	)`, s.table, s.vectorType())
}

// upsertSQL overwrites an existing row with the same chunk id.
func (s *Store) upsertSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (id, embedding, content, metadata)
		VALUES ($1, $2, $3, $4::jsonb)
		ON CONFLICT (id) DO UPDATE
		SET embedding = EXCLUDED.embedding, content = EXCLUDED.content, metadata = EXCLUDED.metadata`, s.table)
}

// querySQL orders by cosine distance, nearest first.
func (s *Store) querySQL() string {
	return fmt.Sprintf(`SELECT content, metadata, embedding <=> $1 AS distance
		FROM %s ORDER BY distance LIMIT $2`, s.table)
}

func (s *Store) dropTableSQL() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", s.table)
}

func (s *Store) Add(ctx context.Context, chunks []commonModels.Chunk) (int, error) {
	log := s.logger.With("traceId", config.TraceID(ctx))
	indexable := vectorDB.Indexable(chunks, log)

	upsert := s.upsertSQL()

	added := 0
	for i := 0; i < len(indexable); i += config.UpsertBatchSize {
		end := min(i+config.UpsertBatchSize, len(indexable))

		batch := &pgx.Batch{}
		for _, c := range indexable[i:end] {
			md, err := json.Marshal(c.Metadata)
			if err != nil {
				return added, fmt.Errorf("failed to encode metadata for %s: %w", c.ID(), err)
			}
			batch.Queue(upsert, c.ID(), pgvector.NewVector(c.Embedding), c.Content, string(md))
		}

		if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
			return added, fmt.Errorf("pgvector upsert failed: %w", err)
		}
		added += end - i
	}

	log.Info("Added chunks", "added", added, "skipped", len(chunks)-len(indexable))
	return added, nil
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]commonModels.RetrievalResult, error) {
	if topK <= 0 {
		return []commonModels.RetrievalResult{}, nil
	}

	rows, err := s.pool.Query(ctx, s.querySQL(), pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("pgvector query failed: %w", err)
	}
	defer rows.Close()

	var results []commonModels.RetrievalResult
	for rows.Next() {
		var (
			content  string
			rawMeta  []byte
			distance float64
		)
		if err := rows.Scan(&content, &rawMeta, &distance); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		md := commonModels.Metadata{}
		if err := json.Unmarshal(rawMeta, &md); err != nil {
			return nil, fmt.Errorf("failed to decode metadata: %w", err)
		}
		results = append(results, commonModels.RetrievalResult{
			Content:  content,
			Metadata: md,
			Distance: float32(distance),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector query failed: %w", err)
	}
	if results == nil {
		results = []commonModels.RetrievalResult{}
	}
	return vectorDB.SortByDistance(results, topK), nil
}

func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, s.dropTableSQL()); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", s.table, err)
	}
	if err := s.ensureTable(ctx); err != nil {
		return err
	}
	s.logger.With("traceId", config.TraceID(ctx)).Info("Collection reset")
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, fmt.Sprintf("SELECT count(*) FROM %s", s.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgvector count failed: %w", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
