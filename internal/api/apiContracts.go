package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	ChatId    string            `json:"chat_id,omitempty" example:"chat_550"`
	JobType   string            `json:"job_type,omitempty" example:"Query"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type RAGResponse struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources"`
}

type SkippedItem struct {
	Item   string `json:"item" example:"data/raw/broken.pdf"`
	Kind   string `json:"kind" example:"load"`
	Reason string `json:"reason"`
}

type IndexResponse struct {
	Directory     string        `json:"directory" example:"data/raw"`
	UploadedFiles []string      `json:"uploaded_files,omitempty"`
	Loaded        int           `json:"loaded"`
	Described     int           `json:"described"`
	Chunked       int           `json:"chunked"`
	Embedded      int           `json:"embedded"`
	Added         int           `json:"added"`
	Skipped       []SkippedItem `json:"skipped,omitempty"`
}

type Result struct {
	Status              string         `json:"status"`
	Step                string         `json:"step,omitempty"`
	RAGExternalResponse *RAGResponse   `json:"rag_response,omitempty"`
	IndexResponse       *IndexResponse `json:"index_response,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	ChatId    string `json:"chat_id,omitempty"`
	StatusURL string `json:"status_url"`
}

type ChatTurn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Sources  []string `json:"sources,omitempty"`
}

type ChatHistoryResponse struct {
	ChatId string     `json:"chat_id"`
	Turns  []ChatTurn `json:"turns"`
}

// requests---------------------

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	ChatID  string `json:"chatID,omitempty"`
}
