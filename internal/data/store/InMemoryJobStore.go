package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/ragassistant/internal/config"
	"github.com/akolanti/ragassistant/internal/domain/jobModel"
	"github.com/akolanti/ragassistant/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore backs the API when redis is unavailable. Jobs expire after
// the same TTL redis would apply; expired entries are dropped on the next save.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]storedJob
	ttl  time.Duration
	now  func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStoreWithTTL(config.RedisJobStoreTTL, time.Now)
}

func NewInMemoryJobStoreWithTTL(ttl time.Duration, now func() time.Time) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs: make(map[string]storedJob),
		ttl:  ttl,
		now:  now,
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, entry := range s.jobs {
		if now.After(entry.expiresAt) {
			delete(s.jobs, id)
		}
	}
	s.jobs[job.Id] = storedJob{job: job, expiresAt: now.Add(s.ttl)}
	inMemLogger.Debug("Saved job", "jobId", job.Id, "status", job.Status, "step", job.CurrentStep)
	return nil
}

func (s *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.jobs[jobId]
	if !ok || s.now().After(entry.expiresAt) {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (s *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}
