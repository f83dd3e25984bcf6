// Package sync drains the submission queue against the remote inspection
// service. Delivery is blind-resend: the engine never deduplicates
// client-side; the server's natural-key constraints make repeats safe.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cesworks/fieldcheck/internal/client/api"
	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/client/queue"
	"github.com/cesworks/fieldcheck/internal/client/store"
	"github.com/cesworks/fieldcheck/internal/common"
	"github.com/cesworks/fieldcheck/internal/logging"
)

// Result is the outcome of one delivery attempt. The engine never panics or
// returns errors past its boundary for per-job failures; callers inspect
// Result instead.
type Result struct {
	OK        bool
	FolderURL string // set for successful uploads
	Err       error
}

// Summary reports a FlushAll pass.
type Summary struct {
	Remaining int
	Delivered int
	Dead      int
	// Skipped means another drain was already in flight and this trigger
	// coalesced into it.
	Skipped bool
}

// Engine drains the queue in enqueue order, one attempt per job per pass.
type Engine struct {
	queue  queue.Queue
	store  store.Store
	client api.Client
	log    logging.Logger

	inFlight atomic.Bool
}

func NewEngine(q queue.Queue, s store.Store, c api.Client, log logging.Logger) *Engine {
	return &Engine{queue: q, store: s, client: c, log: log}
}

// FlushOne delivers a single job. Dispatch is exhaustive over the payload
// union; both branches normalize to a Result so retry handling upstream is
// branch-agnostic.
func (e *Engine) FlushOne(ctx context.Context, job models.QueueJob) Result {
	payload, err := job.Payload()
	if err != nil {
		// A job we cannot even decode can never succeed.
		return Result{Err: fmt.Errorf("%w: %v", common.ErrValidation, err)}
	}

	switch p := payload.(type) {
	case models.UpsertJob:
		return e.deliverUpsert(ctx, p)
	case models.UploadJob:
		url, err := e.client.UploadPhoto(ctx, p.SessionID, p.Kind, p.Filename, p.Content)
		if err != nil {
			return Result{Err: err}
		}
		return Result{OK: true, FolderURL: url}
	}
	return Result{Err: fmt.Errorf("%w: unhandled payload %T", common.ErrValidation, payload)}
}

func (e *Engine) deliverUpsert(ctx context.Context, p models.UpsertJob) Result {
	switch p.Op {
	case models.OpSessionUpsert:
		if err := e.client.UpsertSession(ctx, p.Body); err != nil {
			return Result{Err: err}
		}
	case models.OpPhotoFolderUpsert:
		if err := e.client.UpsertPhotoFolder(ctx, p.Key.SessionID, p.Key.Kind, p.Key.URL); err != nil {
			return Result{Err: err}
		}
	default:
		return Result{Err: fmt.Errorf("%w: unknown operation %q", common.ErrValidation, p.Op)}
	}
	return Result{OK: true}
}

// FlushAll snapshots the queue and attempts each job exactly once, in
// enqueue order. Failed transient jobs are retained with attempts+1; jobs
// hitting the attempt ceiling or a validation rejection move to the
// dead-letter set. Re-entrant triggers coalesce into the pass already in
// flight.
func (e *Engine) FlushAll(ctx context.Context) (Summary, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		jobs, _ := e.queue.List(ctx)
		return Summary{Remaining: len(jobs), Skipped: true}, nil
	}
	defer e.inFlight.Store(false)

	jobs, err := e.queue.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("snapshot queue: %w", err)
	}

	var sum Summary
	for _, job := range jobs {
		res := e.FlushOne(ctx, job)
		if res.OK {
			// Side channel first: a derived reference must be queued before
			// the upload job disappears, so a crash in between cannot lose it.
			if job.Upload != nil && res.FolderURL != "" {
				if err := e.recordFolder(ctx, *job.Upload, res.FolderURL); err != nil {
					e.log.Warn(ctx, "folder follow-up not enqueued", "jobID", job.ID, "err", err)
				}
			}
			if err := e.queue.Remove(ctx, job.ID); err != nil {
				return sum, fmt.Errorf("remove delivered job: %w", err)
			}
			sum.Delivered++
			continue
		}

		job.Attempts++
		switch {
		case errors.Is(res.Err, common.ErrValidation):
			// Resending an invalid payload cannot succeed.
			e.log.Warn(ctx, "job rejected by server, dead-lettering", "jobID", job.ID, "err", res.Err)
			if err := e.queue.MoveToDead(ctx, job, res.Err.Error()); err != nil {
				return sum, err
			}
			sum.Dead++
		case job.Attempts >= common.AttemptCeiling:
			e.log.Warn(ctx, "attempt ceiling exceeded, dead-lettering",
				"jobID", job.ID, "attempts", job.Attempts)
			reason := fmt.Sprintf("%v after %d attempts: %v", common.ErrAttemptsExceeded, job.Attempts, res.Err)
			if err := e.queue.MoveToDead(ctx, job, reason); err != nil {
				return sum, err
			}
			sum.Dead++
		default:
			if err := e.queue.Update(ctx, job); err != nil {
				return sum, err
			}
			sum.Remaining++
			e.log.Debug(ctx, "job retained for retry", "jobID", job.ID, "attempts", job.Attempts)
		}
	}
	return sum, nil
}

// recordFolder writes the derived folder URL into the snapshot (first
// capture wins; later captures may overwrite through an explicit save) and
// enqueues the idempotent follow-up association upsert. The original upload
// job is never mutated; every job stays replayable in isolation.
func (e *Engine) recordFolder(ctx context.Context, up models.UploadJob, folderURL string) error {
	snap, err := e.store.Read(ctx)
	if err != nil {
		return err
	}

	patch := models.Patch{}
	switch up.Kind {
	case common.KindWalk:
		if snap.PhotosWalkFolderURL == "" {
			patch["photosWalkFolderUrl"] = folderURL
		}
	case common.KindRepair:
		if snap.PhotosRepairFolderURL == "" {
			patch["photosRepairFolderUrl"] = folderURL
		}
	}
	if len(patch) > 0 {
		if _, err := e.store.Write(ctx, patch); err != nil && !errors.Is(err, common.ErrDegraded) {
			return err
		}
	}

	_, err = e.queue.Enqueue(ctx, queue.JobSpec{Payload: models.UpsertJob{
		Op: models.OpPhotoFolderUpsert,
		Key: models.NaturalKey{
			SessionID: up.SessionID,
			Kind:      up.Kind,
			URL:       folderURL,
		},
	}})
	return err
}

// Drain flushes repeatedly with fibonacci backoff until the queue is empty,
// used before navigations that depend on server-confirmed state (finalize).
// Emptiness is checked against the queue itself, not the pass summary: a
// delivered upload spawns its association follow-up mid-pass, and that job
// still needs a pass of its own.
func (e *Engine) Drain(ctx context.Context, maxTries uint64) error {
	b := backoffFib(500*time.Millisecond, maxTries)
	return retryDo(ctx, b, func(ctx context.Context) error {
		sum, err := e.FlushAll(ctx)
		if err != nil {
			return retryable(err)
		}
		if sum.Skipped {
			return retryable(errors.New("another drain already in flight"))
		}
		jobs, err := e.queue.List(ctx)
		if err != nil {
			return retryable(err)
		}
		if len(jobs) > 0 {
			return retryable(fmt.Errorf("%d jobs still queued", len(jobs)))
		}
		return nil
	})
}
