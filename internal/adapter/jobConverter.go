package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/ragassistant/internal/api"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
)

func ToInitJobResponse(job jobModel.Job) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		StatusURL: fmt.Sprintf("status/%s", job.Id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.IsSet() {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status: string(job.Status),
		Step:   string(job.CurrentStep),
	}
	switch job.JobType {
	case jobModel.JobTypeQuery:
		result.RAGExternalResponse = ToRAGExternalStatus(job.JobPayload)
	case jobModel.JobTypeIndex:
		result.IndexResponse = ToIndexResponse(job.JobPayload)
	}

	return api.JobResponse{
		Id:        job.Id,
		ChatId:    job.ChatId,
		JobType:   string(job.JobType),
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToRAGExternalStatus(ragData jobModel.JobPayload) *api.RAGResponse {
	if ragData.Answer == "" && len(ragData.Sources) == 0 {
		return nil
	}

	return &api.RAGResponse{
		Question: ragData.Question,
		Answer:   ragData.Answer,
		Sources:  ragData.Sources,
	}
}

// ToIndexResponse returns nil until the index run has produced a report.
func ToIndexResponse(payload jobModel.JobPayload) *api.IndexResponse {
	if payload.Report == nil {
		return nil
	}
	res := &api.IndexResponse{
		Directory:     payload.Directory,
		UploadedFiles: payload.UploadedFiles,
		Loaded:        payload.Report.Loaded,
		Described:     payload.Report.Described,
		Chunked:       payload.Report.Chunked,
		Embedded:      payload.Report.Embedded,
		Added:         payload.Report.Added,
	}
	for _, s := range payload.Report.Skipped {
		res.Skipped = append(res.Skipped, api.SkippedItem{Item: s.Item, Kind: s.Kind, Reason: s.Reason})
	}
	return res
}

func ToChatHistoryResponse(chatId string, history []jobModel.JobPayload) api.ChatHistoryResponse {
	turns := make([]api.ChatTurn, 0, len(history))
	for _, h := range history {
		turns = append(turns, api.ChatTurn{Question: h.Question, Answer: h.Answer, Sources: h.Sources})
	}
	return api.ChatHistoryResponse{ChatId: chatId, Turns: turns}
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
