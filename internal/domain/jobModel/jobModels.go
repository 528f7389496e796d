package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

type JobType string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	QueryInit    InternalStatus = "QueryInit"
	RAGCall      InternalStatus = "RAG"
	IndexInit    InternalStatus = "IndexInit"
	IndexRunning InternalStatus = "IndexRunning"
	ResetRunning InternalStatus = "ResetRunning"
	RedisCall    InternalStatus = "Redis"
	Error        InternalStatus = "Error"

	Complete InternalStatus = "Complete"

	JobTypeQuery JobType = "Query"
	JobTypeIndex JobType = "Index"
	JobTypeReset JobType = "Reset"
)

type Job struct {
	Id          string         `json:"id"`
	ChatId      string         `json:"chat_id"`
	TraceId     string         `json:"trace_id"`
	JobType     JobType        `json:"job_type"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

func (e JobError) IsSet() bool {
	return e.Code != 0 || e.Message != ""
}

type JobPayload struct {
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
	Sources  []string `json:"sources,omitempty"`

	Directory     string        `json:"directory,omitempty"`
	UploadedFiles []string      `json:"uploaded_files,omitempty"`
	Report        *IndexSummary `json:"report,omitempty"`
}

// IndexSummary is the stored form of an index run's report.
type IndexSummary struct {
	Loaded    int           `json:"loaded"`
	Described int           `json:"described"`
	Chunked   int           `json:"chunked"`
	Embedded  int           `json:"embedded"`
	Added     int           `json:"added"`
	Skipped   []SkippedItem `json:"skipped,omitempty"`
}

type SkippedItem struct {
	Item   string `json:"item"`
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type MessageStore interface {
	ValidateChatId(ctx context.Context, id string) bool
	TrySaveChat(ctx context.Context, id string, JobPayload JobPayload) error
	InitNewChat(ctx context.Context, id string) error
	GetMessageHistory(ctx context.Context, chatId string) ([]JobPayload, error)
}
