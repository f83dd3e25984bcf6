// Package queue implements the Submission Queue: an ordered, durable list
// of pending write jobs, persisted independently of the session snapshot.
package queue

import (
	"context"

	"github.com/cesworks/fieldcheck/internal/client/models"
)

// JobSpec describes a job to enqueue; the queue assigns id, sequence and
// enqueue timestamp.
type JobSpec struct {
	Payload models.JobPayload
}

// Queue is the durable pending-write list. Ordering is FIFO by enqueue
// sequence. Jobs are mutated only by the sync engine and leave the active
// set only on confirmed success or through MoveToDead.
type Queue interface {
	Enqueue(ctx context.Context, spec JobSpec) (string, error)
	List(ctx context.Context) ([]models.QueueJob, error)
	Remove(ctx context.Context, jobID string) error

	// Update persists a changed attempt count after a failed delivery.
	Update(ctx context.Context, job models.QueueJob) error

	// MoveToDead removes the job from the active set and records it in the
	// dead-letter set with the given reason. Jobs are never silently dropped.
	MoveToDead(ctx context.Context, job models.QueueJob, reason string) error
	ListDead(ctx context.Context) ([]models.DeadJob, error)
}
