// Package mcpserver exposes the pipeline as Model Context Protocol tools so
// an assistant can index, query and reset the knowledge base over stdio.
package mcpserver

import (
	"context"
	"errors"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

type Server struct {
	service rag.Service
	dataDir string
	server  *mcp.Server
	logger  *logger_i.Logger
}

// New registers the tools. dataDir is indexed when the index tool is called
// without a directory.
func New(service rag.Service, dataDir string) (*Server, error) {
	if service == nil {
		return nil, errors.New("mcp server needs a pipeline service")
	}
	s := &Server{
		service: service,
		dataDir: dataDir,
		server:  mcp.NewServer(&mcp.Implementation{Name: "research-assistant", Version: Version}, nil),
		logger:  logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("MCP server listening on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type IndexInput struct {
	Directory string `json:"directory,omitempty" jsonschema:"directory to index, defaults to the configured data directory"`
}

type IndexOutput struct {
	Directory string            `json:"directory"`
	Loaded    int               `json:"loaded"`
	Described int               `json:"described"`
	Chunked   int               `json:"chunked"`
	Added     int               `json:"added"`
	Skipped   []rag.SkippedItem `json:"skipped,omitempty"`
}

type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

type QueryOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources,omitempty"`
}

type EmptyInput struct{}

type CountOutput struct {
	Chunks int `json:"chunks"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index",
		Description: "Load, describe, chunk, embed and store every supported file in a directory",
	}, s.handleIndex)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question from the indexed documents and cite the sources",
	}, s.handleQuery)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset",
		Description: "Remove every stored chunk from the knowledge base",
	}, s.handleReset)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count",
		Description: "Number of chunks in the knowledge base",
	}, s.handleCount)
}

func withTrace(ctx context.Context) context.Context {
	return context.WithValue(ctx, config.TRACE_ID_KEY, uuid.New().String())
}

func (s *Server) handleIndex(ctx context.Context, _ *mcp.CallToolRequest, input IndexInput) (*mcp.CallToolResult, IndexOutput, error) {
	dir := input.Directory
	if dir == "" {
		dir = s.dataDir
	}
	report := s.service.Index(withTrace(ctx), dir)
	if report.Err != nil {
		return nil, IndexOutput{}, report.Err
	}
	return nil, IndexOutput{
		Directory: report.Directory,
		Loaded:    report.Loaded,
		Described: report.Described,
		Chunked:   report.Chunked,
		Added:     report.Added,
		Skipped:   report.Skipped,
	}, nil
}

// handleQuery returns the fixed fallback answers as results, not errors, so
// the caller sees the same text a user would.
func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, input QueryInput) (*mcp.CallToolResult, QueryOutput, error) {
	if input.Question == "" {
		return nil, QueryOutput{}, errors.New("question is required")
	}
	result := s.service.Query(withTrace(ctx), input.Question)
	if result.Err != nil {
		s.logger.Warn("Query degraded", "error", result.Err)
	}
	return nil, QueryOutput{Answer: result.Answer, Sources: result.Sources}, nil
}

func (s *Server) handleReset(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, CountOutput, error) {
	if err := s.service.Reset(withTrace(ctx)); err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{}, nil
}

func (s *Server) handleCount(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.service.Count(withTrace(ctx))
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Chunks: n}, nil
}
