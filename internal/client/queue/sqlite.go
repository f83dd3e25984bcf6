package queue

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cesworks/fieldcheck/internal/client/models"
	"github.com/cesworks/fieldcheck/internal/dbx"
)

// SQLiteQueue stores jobs in the queue_jobs table, ordered by a monotonic
// sequence column. Upload binaries ride inside the payload JSON (base64), so
// a job remains replayable after a restart even if the source file is gone.
type SQLiteQueue struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteQueue(db *sql.DB) *SQLiteQueue {
	return &SQLiteQueue{db: db, now: time.Now}
}

func (q *SQLiteQueue) Enqueue(ctx context.Context, spec JobSpec) (string, error) {
	job := models.QueueJob{
		ID:         uuid.NewString(),
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

	payload, err := job.MarshalPayload()
	if err != nil {
		return "", fmt.Errorf("enqueue: %w", err)
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO queue_jobs (id, kind, attempts, enqueued_at, payload) VALUES (?, ?, 0, ?, ?)`,
		job.ID, string(job.Kind), job.EnqueuedAt, string(payload))
	if err != nil {
		return "", fmt.Errorf("enqueue: %w", err)
	}
	return job.ID, nil
}

func (q *SQLiteQueue) List(ctx context.Context) ([]models.QueueJob, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT seq, id, kind, attempts, enqueued_at, payload FROM queue_jobs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var result []models.QueueJob
	for rows.Next() {
		var job models.QueueJob
		var kind, payload string
		if err := rows.Scan(&job.Seq, &job.ID, &kind, &job.Attempts, &job.EnqueuedAt, &payload); err != nil {
			return nil, err
		}
		job.Kind = models.JobKind(kind)
		if err := job.UnmarshalPayload([]byte(payload)); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (q *SQLiteQueue) Remove(ctx context.Context, jobID string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM queue_jobs WHERE id = ?`, jobID)
	if err != nil {
		return fmt.Errorf("remove job %s: %w", jobID, err)
	}
	return nil
}

func (q *SQLiteQueue) Update(ctx context.Context, job models.QueueJob) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE queue_jobs SET attempts = ? WHERE id = ?`, job.Attempts, job.ID)
	if err != nil {
		return fmt.Errorf("update job %s: %w", job.ID, err)
	}
	return nil
}

func (q *SQLiteQueue) MoveToDead(ctx context.Context, job models.QueueJob, reason string) error {
	payload, err := job.MarshalPayload()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, q.db, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO dead_jobs (seq, id, kind, attempts, enqueued_at, payload, reason, failed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			job.Seq, job.ID, string(job.Kind), job.Attempts, job.EnqueuedAt,
			string(payload), reason, q.now().UnixMilli())
		if err != nil {
			return fmt.Errorf("dead-letter job %s: %w", job.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM queue_jobs WHERE id = ?`, job.ID); err != nil {
			return fmt.Errorf("dead-letter job %s: %w", job.ID, err)
		}
		return nil
	})
}

func (q *SQLiteQueue) ListDead(ctx context.Context) ([]models.DeadJob, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT seq, id, kind, attempts, enqueued_at, payload, reason, failed_at FROM dead_jobs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list dead jobs: %w", err)
	}
	defer rows.Close()

	var result []models.DeadJob
	for rows.Next() {
		var d models.DeadJob
		var kind, payload string
		if err := rows.Scan(&d.Seq, &d.ID, &kind, &d.Attempts, &d.EnqueuedAt, &payload, &d.Reason, &d.FailedAt); err != nil {
			return nil, err
		}
		d.Kind = models.JobKind(kind)
		if err := d.UnmarshalPayload([]byte(payload)); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
