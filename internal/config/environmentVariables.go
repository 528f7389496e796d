package config

import (
	"time"
)

const (
	TRACE_ID_KEY                = "traceId"
	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//pipeline defaults
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultTopK         = 5
	DefaultDataDir      = "data/raw"
	DefaultVectorDBPath = "vector_db/chroma_db"
	DefaultCollection   = "research_assistant_collection"

	//providers
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	GeminiTextModel      = "gemini-2.5-flash"
	GeminiVisionModel    = "gemini-2.5-flash"
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAITextModel      = "gpt-4o-mini"
	OpenAIVisionModel    = "gpt-4o-mini"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//the vector size must match the collection, changing it needs a reset
	EmbeddingOutputDimensionality = 768

	//vector stores
	StoreChromem  = "chromem"
	StoreQdrant   = "qdrant"
	StorePgvector = "pgvector"

	//upserts are sent in batches of this size
	UpsertBatchSize = 100

	//vectorDB
	QdrantHost     = "localhost"
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//pipeline jobs run one at a time
	PipelineWorkerCount = 1

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	MaxUploadSize = 32 << 20

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//circuit breaker around model APIs
	BreakerConsecutiveFailures = 5
	BreakerOpenTimeout         = 30 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour

	//chat turns returned by the history endpoint
	ChatHistoryLength = 10
)

// prompts and fixed replies
const (
	ImageDescriptionPrompt = "Describe this image in detail, focusing on any text, charts, or relevant information present."

	AnswerPromptTemplate = `You are an intelligent research assistant. Use the following pieces of information to answer the user's question.
If you cannot find the answer within the provided information, clearly state that you don't have enough information.
Do not make up answers. Cite the sources of your information if possible.

--- Retrieved Information ---
%s
---------------------------

User Question: %s

Your Answer:`

	NoRelevantInformationMessage = "I couldn't find any relevant information for your query."
	InsufficientContextMessage   = "I couldn't find relevant information in my knowledge base."
	GenerationErrorMessage       = "An error occurred while generating the answer."
	UnknownSource                = "Unknown Source"
)
