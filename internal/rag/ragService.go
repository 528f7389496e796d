package rag

import (
	"context"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/internal/rag/embedding"
	"github.com/akolanti/ragassistant/internal/rag/generation"
	"github.com/akolanti/ragassistant/internal/rag/llm"
	"github.com/akolanti/ragassistant/internal/rag/multimodal"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/internal/rag/retrieval"
	"github.com/akolanti/ragassistant/internal/rag/vectorDB"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

// Service is what the front ends call: the worker, the CLI, the terminal UI
// and the MCP server. None of them see the stores or model clients.
type Service interface {
	Index(ctx context.Context, dir string) IndexReport
	Query(ctx context.Context, question string) QueryResult
	Reset(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type Options struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

func DefaultOptions() Options {
	return Options{
		ChunkSize:    config.DefaultChunkSize,
		ChunkOverlap: config.DefaultChunkOverlap,
		TopK:         config.DefaultTopK,
	}
}

type service struct {
	store      vectorDB.Store
	embedder   embedding.Embedder
	normalizer *multimodal.Normalizer
	retriever  *retrieval.Retriever
	generator  *generation.Generator
	opts       Options
	logger     *logger_i.Logger
}

func NewService(store vectorDB.Store, llmProvider llm.Provider, vision llm.VisionProvider, em embedding.Embedder, opts Options) Service {
	return &service{
		store:      store,
		embedder:   em,
		normalizer: multimodal.NewNormalizer(vision),
		retriever:  retrieval.NewRetriever(em, store),
		generator:  generation.NewGenerator(llmProvider),
		opts:       opts,
		logger:     logger_i.NewLogger("RAG Service"),
	}
}

// Index runs load, describe, chunk, embed and store over dir, in that order.
// Items that fail a stage are dropped and listed in the report; nothing
// already stored is rolled back.
func (s *service) Index(ctx context.Context, dir string) IndexReport {
	log := s.logger.With("traceId", config.TraceID(ctx), "dir", dir)
	report := IndexReport{Directory: dir}

	docs := s.executeLoadStep(ctx, log, &report, dir)
	docs = s.executeNormalizeStep(ctx, log, &report, docs)
	chunks := s.executeChunkStep(log, &report, docs)
	chunks = s.executeEmbeddingStep(ctx, log, &report, chunks)

	if err := s.executeStoreStep(ctx, log, &report, chunks); err != nil {
		report.Err = err
		log.Error("Indexing stopped at the store", "error", err)
		return report
	}

	log.Info("Indexing finished",
		"loaded", report.Loaded, "described", report.Described, "chunks", report.Chunked,
		"embedded", report.Embedded, "added", report.Added, "skipped", len(report.Skipped))
	return report
}

// Query answers from the stored chunks. When nothing relevant comes back the
// fixed no-information answer is returned without calling the model.
func (s *service) Query(ctx context.Context, question string) QueryResult {
	log := s.logger.With("traceId", config.TraceID(ctx))

	results, err := s.executeRetrieveStep(ctx, log, question)
	if err != nil || len(results) == 0 {
		return QueryResult{Answer: config.NoRelevantInformationMessage, Err: err}
	}

	answer, err := s.executeGenerateStep(ctx, log, question, results)
	sources := CollectSources(results)
	return QueryResult{
		Answer:  answer + FormatSources(sources),
		Sources: sources,
		Results: results,
		Err:     err,
	}
}

func (s *service) Reset(ctx context.Context) error {
	log := s.logger.With("traceId", config.TraceID(ctx))
	if err := s.store.Reset(ctx); err != nil {
		log.Error("Failed to reset the vector store", "error", err)
		return ragerr.New(ragerr.KindStore, "reset", err)
	}
	log.Info("Vector store reset")
	return nil
}

func (s *service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, ragerr.New(ragerr.KindStore, "count", err)
	}
	return n, nil
}

func recordSkipped(report *IndexReport, errs []error) {
	for _, err := range errs {
		report.skip(err)
		kind, _ := ragerr.KindOf(err)
		metrics.RecordSkippedItem(string(kind))
	}
}
