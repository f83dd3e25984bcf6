package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cesworks/fieldcheck/internal/client/models"
)

// MemoryQueue is the in-memory Queue used by tests and as the degraded-mode
// fallback. Jobs held here do not survive a process exit.
type MemoryQueue struct {
	mu     sync.Mutex
	nextSq int64
	jobs   []models.QueueJob
	dead   []models.DeadJob
	now    func() time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{now: time.Now}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, spec JobSpec) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.nextSq++
	job := models.QueueJob{
		ID:         uuid.NewString(),
		Seq:        q.nextSq,
		EnqueuedAt: q.now().UnixMilli(),
	}
	switch p := spec.Payload.(type) {
	case models.UpsertJob:
		job.Kind = models.JobUpsert
		job.Upsert = &p
	case models.UploadJob:
		job.Kind = models.JobUpload
		job.Upload = &p
	default:
		return "", fmt.Errorf("enqueue: unsupported payload %T", spec.Payload)
	}
	q.jobs = append(q.jobs, job)
	return job.ID, nil
}

func (q *MemoryQueue) List(ctx context.Context) ([]models.QueueJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.QueueJob, len(q.jobs))
	copy(out, q.jobs)
	return out, nil
}

func (q *MemoryQueue) Remove(ctx context.Context, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, j := range q.jobs {
		if j.ID == jobID {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *MemoryQueue) Update(ctx context.Context, job models.QueueJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, j := range q.jobs {
		if j.ID == job.ID {
			q.jobs[i] = job
			return nil
		}
	}
	return nil
}

func (q *MemoryQueue) MoveToDead(ctx context.Context, job models.QueueJob, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, j := range q.jobs {
		if j.ID == job.ID {
			q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
			break
		}
	}
	q.dead = append(q.dead, models.DeadJob{QueueJob: job, Reason: reason, FailedAt: q.now().UnixMilli()})
	return nil
}

func (q *MemoryQueue) ListDead(ctx context.Context) ([]models.DeadJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]models.DeadJob, len(q.dead))
	copy(out, q.dead)
	return out, nil
}
