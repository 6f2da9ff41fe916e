// Package worker drives batch analysis: it consumes jobs from the
// dispatcher and runs the per-document pipeline with failure isolation.
package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/detector"
	"github.com/rim-zghida/plagiasm-detector/internal/plagiarism"
	"github.com/rim-zghida/plagiasm-detector/internal/queue"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

// Worker polls the dispatcher and processes one batch at a time. Batches
// over different ids share no mutable state, so more workers can run in
// parallel without coordination beyond the job claim.
type Worker struct {
	dispatcher    queue.Dispatcher
	batchRepo     repository.BatchRepository
	docRepo       repository.DocumentRepository
	compRepo      repository.ComparisonRepository
	detectionRepo repository.DetectionRepository
	registry      *detector.Registry
	matcher       *plagiarism.Matcher
	logger        *zap.Logger
	pollInterval  time.Duration
}

func NewWorker(
	dispatcher queue.Dispatcher,
	batchRepo repository.BatchRepository,
	docRepo repository.DocumentRepository,
	compRepo repository.ComparisonRepository,
	detectionRepo repository.DetectionRepository,
	registry *detector.Registry,
	matcher *plagiarism.Matcher,
	logger *zap.Logger,
	pollInterval time.Duration,
) *Worker {
	return &Worker{
		dispatcher:    dispatcher,
		batchRepo:     batchRepo,
		docRepo:       docRepo,
		compRepo:      compRepo,
		detectionRepo: detectionRepo,
		registry:      registry,
		matcher:       matcher,
		logger:        logger,
		pollInterval:  pollInterval,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Batch worker started")

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Batch worker stopped")
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes jobs until the queue is empty.
func (w *Worker) drain(ctx context.Context) {
	for {
		job, err := w.dispatcher.Claim()
		if err != nil {
			if !errors.Is(err, queue.ErrNoJobs) {
				w.logger.Error("Failed to claim job", zap.Error(err))
			}
			return
		}

		w.logger.Info("Processing analysis job",
			zap.Int64("job_id", job.ID),
			zap.String("batch_id", job.BatchID.String()),
			zap.Int("attempt", job.Attempts))

		if err := w.ProcessBatch(ctx, job.BatchID, job.Provider, job.AIThreshold); err != nil {
			// Leave the job running; the stale timeout will make it claimable
			// again for another delivery.
			w.logger.Error("Batch processing failed, leaving job for redelivery",
				zap.Int64("job_id", job.ID), zap.Error(err))
			continue
		}

		if err := w.dispatcher.Done(job.ID); err != nil {
			w.logger.Error("Failed to mark job done", zap.Int64("job_id", job.ID), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}
