package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var countJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "count_jobs_in_queue",
	Help: "Number of jobs in queue",
})

var indexedChunks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "rag_indexed_chunks_total",
	Help: "Chunks written to the vector store",
})

var skippedItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rag_skipped_items_total",
	Help: "Files, images and chunks dropped by the pipeline, by stage",
}, []string{"kind"})

var jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "rag_jobs_finished_total",
	Help: "Finished pipeline jobs by type and final status",
}, []string{"job_type", "status"})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active workers",
})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() {
	countJobsInQueue.Inc()
}

func DecrementJobsInQueue() {
	countJobsInQueue.Dec()
}

func RecordIndexedChunks(n int) {
	indexedChunks.Add(float64(n))
}

func RecordSkippedItem(kind string) {
	skippedItems.WithLabelValues(kind).Inc()
}

func RecordJobOutcome(jobType, status string) {
	jobsFinished.WithLabelValues(jobType, status).Inc()
}

func IncrementActiveWorkerCount() {
	activeWorkerCount.Inc()
}

func DecrementActiveWorkerCount() {
	activeWorkerCount.Dec()
}

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "process_request_duration_seconds",
	Help:    "Total time spent running a pipeline job.",
	Buckets: []float64{.1, .5, 1, 2, 5, 10, 30},
}, []string{"job_type"})

var dependencyLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "dependency_latency_seconds",
	Help:    "Latency of external service calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10},
}, []string{"service"})

func CaptureExecutionMetrics(label string, timeElapsed time.Duration) {
	dependencyLatency.WithLabelValues(label).Observe(timeElapsed.Seconds())
}

func CaptureJobMetrics(label string, timeElapsed time.Duration) {
	requestDuration.WithLabelValues(label).Observe(timeElapsed.Seconds())
}
