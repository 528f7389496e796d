package job

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/pkg/logger_i"
	"github.com/google/uuid"
)

var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrUnknownChat   = errors.New("chat id does not exist")
)

// Service owns the job queue and the stores behind it. Handlers create jobs
// through it and the worker drains JobChannel.
type Service struct {
	JobChannel   chan jobModel.Job
	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
	logger       *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel   chan jobModel.Job
	JobStore     jobModel.JobStore
	MessageStore jobModel.MessageStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:   cfg.JobChannel,
		JobStore:     cfg.JobStore,
		MessageStore: cfg.MessageStore,
		logger:       logger_i.NewLogger("JobService"),
	}
}

// SubmitQuery queues a question. An empty chatId starts a new chat.
func (s *Service) SubmitQuery(ctx context.Context, chatId string, question string) (jobModel.Job, error) {
	if question == "" {
		return jobModel.Job{}, ErrEmptyQuestion
	}
	if chatId == "" {
		chatId = uuid.New().String()
		if err := s.MessageStore.InitNewChat(ctx, chatId); err != nil {
			s.logger.Error("Error initiating new chat", "chatId", chatId, "error", err)
			return jobModel.Job{}, err
		}
	} else if !s.MessageStore.ValidateChatId(ctx, chatId) {
		return jobModel.Job{}, ErrUnknownChat
	}

	j := newJob(ctx, jobModel.JobTypeQuery, jobModel.QueryInit)
	j.ChatId = chatId
	j.JobPayload.Question = question
	return j, s.enqueue(ctx, j)
}

// SubmitIndex queues an index run over dir. uploaded lists the files that
// triggered it, if any.
func (s *Service) SubmitIndex(ctx context.Context, dir string, uploaded []string) (jobModel.Job, error) {
	j := newJob(ctx, jobModel.JobTypeIndex, jobModel.IndexInit)
	j.JobPayload.Directory = dir
	j.JobPayload.UploadedFiles = uploaded
	return j, s.enqueue(ctx, j)
}

func (s *Service) SubmitReset(ctx context.Context) (jobModel.Job, error) {
	j := newJob(ctx, jobModel.JobTypeReset, jobModel.ResetRunning)
	return j, s.enqueue(ctx, j)
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, bool) {
	if id == "" {
		return jobModel.Job{}, false
	}
	return s.JobStore.GetJob(ctx, id)
}

func (s *Service) ChatHistory(ctx context.Context, chatId string) ([]jobModel.JobPayload, error) {
	if !s.MessageStore.ValidateChatId(ctx, chatId) {
		return nil, ErrUnknownChat
	}
	return s.MessageStore.GetMessageHistory(ctx, chatId)
}

// enqueue records the job as queued and hands it to the worker. The send
// blocks while the buffer is full so a burst of requests cannot pile up
// unbounded work.
func (s *Service) enqueue(ctx context.Context, j jobModel.Job) error {
	log := s.logger.With("traceId", j.TraceId, "jobId", j.Id, "jobType", j.JobType)
	if err := s.JobStore.SaveJob(ctx, j); err != nil {
		log.Error("Failed to save queued job", "error", err)
		return err
	}

	select {
	case s.JobChannel <- j:
	case <-ctx.Done():
		s.JobStore.DeleteJob(context.WithoutCancel(ctx), j.Id)
		return ctx.Err()
	}
	metrics.IncrementJobsInQueue()
	log.Info("Created new job")
	return nil
}

func newJob(ctx context.Context, jobType jobModel.JobType, step jobModel.InternalStatus) jobModel.Job {
	traceId := config.TraceID(ctx)
	if traceId == "" {
		traceId = uuid.New().String()
	}
	return jobModel.Job{
		Id:          uuid.New().String(),
		TraceId:     traceId,
		JobType:     jobType,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: step,
	}
}
