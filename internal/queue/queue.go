// Package queue is the task dispatcher between ingestion and the batch
// worker: a durable, at-least-once job queue backed by a Postgres table.
// Ingestion enqueues one job per batch; the worker claims jobs with
// FOR UPDATE SKIP LOCKED so concurrent workers never double-claim a live
// job. A job stuck in "running" past the stale timeout (worker crash)
// becomes claimable again, which is where the at-least-once property comes
// from.
package queue

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Job statuses.
const (
	JobStatusPending = "pending"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
)

// ErrNoJobs is returned by Claim when no job is ready.
var ErrNoJobs = errors.New("no pending jobs")

// Job is one deferred unit of batch processing work.
type Job struct {
	ID          int64     `db:"id"`
	BatchID     uuid.UUID `db:"batch_id"`
	Provider    string    `db:"provider"`
	AIThreshold float64   `db:"ai_threshold"`
	Status      string    `db:"status"`
	Attempts    int       `db:"attempts"`
	CreatedAt   time.Time `db:"created_at"`
}

type Dispatcher interface {
	// Enqueue submits a processing job for the batch. Delivery is
	// at-least-once; the worker keys idempotency by batch id.
	Enqueue(batchID uuid.UUID, provider string, threshold float64) error
	// Claim atomically takes the oldest runnable job and marks it running.
	Claim() (*Job, error)
	// Done marks a claimed job finished.
	Done(jobID int64) error
}

type dispatcher struct {
	db           *sqlx.DB
	logger       *zap.Logger
	staleTimeout time.Duration
}

func NewDispatcher(db *sqlx.DB, staleTimeout time.Duration, logger *zap.Logger) Dispatcher {
	return &dispatcher{db: db, logger: logger, staleTimeout: staleTimeout}
}

func (d *dispatcher) Enqueue(batchID uuid.UUID, provider string, threshold float64) error {
	query := `INSERT INTO analysis_jobs (batch_id, provider, ai_threshold, status) VALUES ($1, $2, $3, $4)`
	if _, err := d.db.Exec(query, batchID, provider, threshold, JobStatusPending); err != nil {
		return err
	}
	d.logger.Info("Enqueued analysis job", zap.String("batch_id", batchID.String()))
	return nil
}

func (d *dispatcher) Claim() (*Job, error) {
	tx, err := d.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var job Job
	query := `SELECT id, batch_id, provider, ai_threshold, status, attempts, created_at
	          FROM analysis_jobs
	          WHERE status = $1
	             OR (status = $2 AND started_at < NOW() - ($3 * INTERVAL '1 second'))
	          ORDER BY created_at
	          LIMIT 1
	          FOR UPDATE SKIP LOCKED`
	err = tx.Get(&job, query, JobStatusPending, JobStatusRunning, int64(d.staleTimeout.Seconds()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoJobs
		}
		return nil, err
	}

	update := `UPDATE analysis_jobs SET status = $1, attempts = attempts + 1, started_at = NOW() WHERE id = $2`
	if _, err := tx.Exec(update, JobStatusRunning, job.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	job.Status = JobStatusRunning
	job.Attempts++
	return &job, nil
}

func (d *dispatcher) Done(jobID int64) error {
	_, err := d.db.Exec(`UPDATE analysis_jobs SET status = $1, finished_at = NOW() WHERE id = $2`, JobStatusDone, jobID)
	return err
}
