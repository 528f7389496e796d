package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/job"
	"github.com/akolanti/ragassistant/internal/metrics"
	"github.com/akolanti/ragassistant/internal/rag"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

// Pipeline jobs share one vector store, so they run on a fixed number of
// workers (one by default) and never overlap.
var (
	_jobService        *job.Service
	_ragService        rag.Service
	stopWorkerChannel  chan bool
	workerWaitGroup    *sync.WaitGroup
	currentWorkerCount int64
	logger             = logger_i.NewLogger("WorkerPool")
)

func InitServices(jobService *job.Service, ragService rag.Service) {
	_jobService = jobService
	_ragService = ragService
}

// InitWorkerPool starts the workers. They exit when stopWorkerChan is closed
// and mark waitGroup done; ctx is the parent of every job context.
func InitWorkerPool(ctx context.Context, stopWorkerChan chan bool, waitGroup *sync.WaitGroup) {
	stopWorkerChannel = stopWorkerChan
	workerWaitGroup = waitGroup
	logger.Info("Initializing worker pool", "workers", config.PipelineWorkerCount)
	for i := 0; i < config.PipelineWorkerCount; i++ {
		createWorker(ctx)
	}
}

func createWorker(ctx context.Context) {
	workerWaitGroup.Add(1)
	atomic.AddInt64(&currentWorkerCount, 1)
	metrics.IncrementActiveWorkerCount()
	go worker(ctx)
	logger.Info("Created new worker")
}

func worker(ctx context.Context) {
	for {
		// a stop signal wins over queued jobs
		select {
		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return
		default:
		}

		select {
		case currentJob := <-_jobService.JobChannel:
			metrics.DecrementJobsInQueue()
			executeJob(ctx, currentJob)

		case <-stopWorkerChannel:
			removeWorker("Stop worker signal received")
			return
		}
	}
}

func removeWorker(reason string) {
	defer workerWaitGroup.Done()
	count := atomic.AddInt64(&currentWorkerCount, -1)
	metrics.DecrementActiveWorkerCount()
	logger.Info("Removed worker", "reason", reason, "workerCount", count)
}
