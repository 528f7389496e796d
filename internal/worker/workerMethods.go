package worker

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/ragassistant/internal/config"
	jobmodel "github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/internal/rag/ragerr"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

func executeJob(parent context.Context, job jobmodel.Job) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(job.JobType), time.Since(start))
	}()
	ctx := context.WithValue(parent, config.TRACE_ID_KEY, job.TraceId)
	log := logger.With("traceId", job.TraceId, "jobId", job.Id, "jobType", job.JobType)
	log.Debug("Processing job")

	job.Status = jobmodel.JobStatusRunning
	saveJobState(ctx, log, job)

	switch job.JobType {
	case jobmodel.JobTypeIndex:
		job = runIndex(ctx, log, job)
	case jobmodel.JobTypeReset:
		job = runReset(ctx, log, job)
	case jobmodel.JobTypeQuery:
		job = runQuery(ctx, log, job)
	default:
		job.Error = jobmodel.JobError{Code: http.StatusBadRequest, Message: "unknown job type"}
	}

	job.EndTime = time.Now()
	if job.Error.IsSet() {
		job.Status = jobmodel.JobStatusError
		job.CurrentStep = jobmodel.Error
	} else {
		job.Status = jobmodel.JobStatusComplete
		job.CurrentStep = jobmodel.Complete
	}
	saveJobState(ctx, log, job)
	metrics.RecordJobOutcome(string(job.JobType), string(job.Status))
	log.Info("Job finished", "status", job.Status, "elapsed", time.Since(start))
}

func runIndex(ctx context.Context, log *logger_i.Logger, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.IndexRunning
	saveJobState(ctx, log, job)

	report := _ragService.Index(ctx, job.JobPayload.Directory)
	job.JobPayload.Report = toIndexSummary(report)
	if report.Err != nil {
		job.Error = toJobError(report.Err)
	}
	return job
}

func runReset(ctx context.Context, log *logger_i.Logger, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.ResetRunning
	if err := _ragService.Reset(ctx); err != nil {
		job.Error = toJobError(err)
	}
	return job
}

func runQuery(ctx context.Context, log *logger_i.Logger, job jobmodel.Job) jobmodel.Job {
	job.CurrentStep = jobmodel.RAGCall
	saveJobState(ctx, log, job)

	result := _ragService.Query(ctx, job.JobPayload.Question)
	job.JobPayload.Answer = result.Answer
	job.JobPayload.Sources = result.Sources
	if result.Err != nil {
		job.Error = toJobError(result.Err)
		return job
	}

	job.CurrentStep = jobmodel.RedisCall
	if err := _jobService.MessageStore.TrySaveChat(ctx, job.ChatId, job.JobPayload); err != nil {
		log.Error("Failed to save chat history", "error", err)
	}
	return job
}

func toIndexSummary(report rag.IndexReport) *jobmodel.IndexSummary {
	summary := &jobmodel.IndexSummary{
		Loaded:    report.Loaded,
		Described: report.Described,
		Chunked:   report.Chunked,
		Embedded:  report.Embedded,
		Added:     report.Added,
	}
	for _, item := range report.Skipped {
		summary.Skipped = append(summary.Skipped, jobmodel.SkippedItem{
			Item:   item.Item,
			Kind:   string(item.Kind),
			Reason: item.Reason,
		})
	}
	return summary
}

// toJobError maps a pipeline failure onto the status envelope. Failures of
// the model services are worth retrying, store and load failures are not.
func toJobError(err error) jobmodel.JobError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return jobmodel.JobError{Code: http.StatusServiceUnavailable, Message: err.Error(), Retry: true}
	}
	kind, _ := ragerr.KindOf(err)
	switch kind {
	case ragerr.KindEmbed, ragerr.KindDescribe, ragerr.KindRetrieve, ragerr.KindGenerate:
		return jobmodel.JobError{Code: http.StatusBadGateway, Message: err.Error(), Retry: true}
	default:
		return jobmodel.JobError{Code: http.StatusInternalServerError, Message: err.Error()}
	}
}

func saveJobState(ctx context.Context, log *logger_i.Logger, job jobmodel.Job) {
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		log.Error("Failed to update job state", "error", err)
	}
}
