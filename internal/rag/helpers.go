package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/ragassistant/internal/domain/commonModels"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/internal/rag/embedding"
	"github.com/akolanti/ragassistant/internal/rag/ingest"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

func (s *service) executeLoadStep(ctx context.Context, log *logger_i.Logger, report *IndexReport, dir string) []commonModels.Document {
	log.Debug("Index", "step", "load")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_load", time.Since(start)) }()

	docs, errs := ingest.LoadDocuments(ctx, dir)
	recordSkipped(report, errs)
	report.Loaded = len(docs)
	return docs
}

func (s *service) executeNormalizeStep(ctx context.Context, log *logger_i.Logger, report *IndexReport, docs []commonModels.Document) []commonModels.Document {
	log.Debug("Index", "step", "describe")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("image_description", time.Since(start)) }()

	out, errs := s.normalizer.Normalize(ctx, docs)
	recordSkipped(report, errs)
	for _, d := range out {
		if d.Type == commonModels.ImageDescription {
			report.Described++
		}
	}
	return out
}

func (s *service) executeChunkStep(log *logger_i.Logger, report *IndexReport, docs []commonModels.Document) []commonModels.Chunk {
	log.Debug("Index", "step", "chunk")

	chunks := ingest.ChunkDocuments(docs, s.opts.ChunkSize, s.opts.ChunkOverlap)
	report.Chunked = len(chunks)
	return chunks
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, report *IndexReport, chunks []commonModels.Chunk) []commonModels.Chunk {
	log.Debug("Index", "step", "embed")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	out, errs := embedding.EmbedChunks(ctx, s.embedder, chunks)
	recordSkipped(report, errs)
	for _, c := range out {
		if c.HasEmbedding() {
			report.Embedded++
		}
	}
	return out
}

func (s *service) executeStoreStep(ctx context.Context, log *logger_i.Logger, report *IndexReport, chunks []commonModels.Chunk) error {
	log.Debug("Index", "step", "store")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_upsert", time.Since(start)) }()

	chunks, errs := dropDuplicateIDs(chunks, log)
	recordSkipped(report, errs)

	added, err := s.store.Add(ctx, chunks)
	report.Added = added
	metrics.RecordIndexedChunks(added)
	if err != nil {
		return ragerr.New(ragerr.KindStore, report.Directory, err)
	}
	return nil
}

// dropDuplicateIDs keeps the first embedded chunk for each id. Files with the
// same name in different folders produce the same ids, and a later upsert
// would silently replace the earlier one.
func dropDuplicateIDs(chunks []commonModels.Chunk, log *logger_i.Logger) ([]commonModels.Chunk, []error) {
	firstSource := make(map[string]string, len(chunks))
	out := make([]commonModels.Chunk, 0, len(chunks))
	var errs []error
	for _, c := range chunks {
		if !c.HasEmbedding() {
			out = append(out, c)
			continue
		}
		if src, seen := firstSource[c.ID()]; seen {
			log.Warn("Skipping chunk with a duplicate id", "chunk_id", c.ID(), "source", c.Source(), "kept", src)
			errs = append(errs, ragerr.New(ragerr.KindStore, c.Source(),
				fmt.Errorf("%w %s, already taken by %s", ragerr.ErrDuplicateID, c.ID(), src)))
			continue
		}
		firstSource[c.ID()] = c.Source()
		out = append(out, c)
	}
	return out, errs
}

func (s *service) executeRetrieveStep(ctx context.Context, log *logger_i.Logger, question string) ([]commonModels.RetrievalResult, error) {
	log.Debug("Query", "step", "retrieve")

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	return s.retriever.Retrieve(ctx, question, s.opts.TopK)
}

func (s *service) executeGenerateStep(ctx context.Context, log *logger_i.Logger, question string, results []commonModels.RetrievalResult) (string, error) {
	log.Debug("Query", "step", "generate", "context_chunks", len(results))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.generator.GenerateAnswer(ctx, question, results)
}
