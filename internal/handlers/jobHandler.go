package handlers

import (
	"context"

	"github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/internal/job"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

var (
	handlerInstance *JobHandler
	logJH           = logger_i.NewLogger("JobHandler")
	logRH           = logger_i.NewLogger("RequestHandler")
)

// JobHandler connects the HTTP handlers to the job service. Uploads land in
// dataDir, which is also the directory every index job reads.
type JobHandler struct {
	service *job.Service
	dataDir string
}

func InitJobHandler(jobService *job.Service, dataDir string) {
	handlerInstance = &JobHandler{service: jobService, dataDir: dataDir}
	logJH.Info("Starting job handler", "dataDir", dataDir)
}

func GetJobStatus(ctx context.Context, id string) (jobModel.Job, bool) {
	if handlerInstance == nil {
		return jobModel.Job{}, false
	}
	return handlerInstance.service.GetJob(ctx, id)
}
