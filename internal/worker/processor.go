package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/detector"
	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

// ProcessBatch runs the full state machine for one batch:
// queued -> processing -> completed. Completion is unconditional once the
// document loop finishes; individual documents fail in isolation. A missing
// batch is logged and abandoned without touching any row.
func (w *Worker) ProcessBatch(ctx context.Context, batchID uuid.UUID, providerKey string, threshold float64) error {
	batch, err := w.batchRepo.GetBatchByID(batchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.logger.Error("Batch not found, abandoning job", zap.String("batch_id", batchID.String()))
			return nil
		}
		return fmt.Errorf("failed to load batch: %w", err)
	}

	if err := w.batchRepo.UpdateBatchStatus(batch.ID, models.BatchStatusProcessing); err != nil {
		return fmt.Errorf("failed to mark batch processing: %w", err)
	}

	docs, err := w.docRepo.GetDocumentsByBatch(batch.ID)
	if err != nil {
		return fmt.Errorf("failed to load batch documents: %w", err)
	}

	provider := w.registry.Get(providerKey)
	runPlagiarism := batch.WantsPlagiarism() && w.matcher.Available()

	// Phase one of the comparison barrier: every eligible document is
	// embedded before any pairwise lookup, so coverage does not depend on
	// loop order.
	var embedFailures map[uuid.UUID]error
	if runPlagiarism {
		embedFailures = w.matcher.EmbedAll(ctx, docs)
	}

	for _, doc := range docs {
		if doc.Terminal() {
			// Re-delivered job: this document already finished.
			w.logger.Debug("Skipping terminal document",
				zap.String("document_id", doc.ID.String()), zap.String("status", doc.Status))
			continue
		}

		if err := w.docRepo.UpdateDocumentStatus(doc.ID, models.DocStatusProcessing); err != nil {
			w.logger.Error("Failed to mark document processing",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}

		if err := w.processDocument(ctx, batch, doc, provider, threshold, runPlagiarism, embedFailures[doc.ID]); err != nil {
			w.logger.Error("Document analysis failed",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
			if err := w.docRepo.UpdateDocumentStatus(doc.ID, models.DocStatusFailed); err != nil {
				w.logger.Error("Failed to mark document failed",
					zap.String("document_id", doc.ID.String()), zap.Error(err))
			}
			continue
		}

		if err := w.docRepo.UpdateDocumentStatus(doc.ID, models.DocStatusCompleted); err != nil {
			w.logger.Error("Failed to mark document completed",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
		}
	}

	if err := w.batchRepo.CompleteBatch(batch.ID); err != nil {
		return fmt.Errorf("failed to complete batch: %w", err)
	}

	w.logger.Info("Batch completed", zap.String("batch_id", batch.ID.String()))
	return nil
}

// processDocument runs the analyses the batch asked for over one document.
// Empty text skips both analyses and the document completes untouched.
func (w *Worker) processDocument(
	ctx context.Context,
	batch *models.Batch,
	doc *models.Document,
	provider detector.Provider,
	threshold float64,
	runPlagiarism bool,
	embedErr error,
) error {
	if batch.WantsAI() && doc.TextContent != "" {
		result, err := provider.Detect(ctx, doc.TextContent, threshold)
		if err != nil {
			return fmt.Errorf("ai detection: %w", err)
		}

		if err := w.docRepo.UpdateDocumentAIResult(doc.ID, result.Score, result.Confidence, result.Provider, result.IsAI); err != nil {
			return fmt.Errorf("persist ai result: %w", err)
		}

		record := &models.AIDetection{
			ID:           uuid.New(),
			DocumentID:   doc.ID,
			ModelVersion: modelVersion(result),
			Probability:  result.Score,
			Metadata: models.DetectionMeta{
				"provider":   result.Provider,
				"confidence": result.Confidence,
				"label":      result.Label,
				"details":    result.Details,
			},
		}
		if err := w.detectionRepo.SaveDetection(record); err != nil {
			return fmt.Errorf("persist detection record: %w", err)
		}
	}

	if runPlagiarism && doc.TextContent != "" {
		if embedErr != nil {
			return fmt.Errorf("embedding: %w", embedErr)
		}

		results, err := w.matcher.FindSimilarInBatch(ctx, doc, batch.ID)
		if err != nil {
			return fmt.Errorf("similarity search: %w", err)
		}

		for _, res := range results {
			comp := &models.Comparison{
				ID:         uuid.New(),
				DocA:       doc.ID,
				DocB:       res.DocumentID,
				Similarity: res.Similarity,
				Matches:    res.Matches,
			}
			if err := w.compRepo.SaveComparison(comp); err != nil {
				return fmt.Errorf("persist comparison: %w", err)
			}
		}
	}

	return nil
}

func modelVersion(result *detector.Result) string {
	if v, ok := result.Details["model"].(string); ok && v != "" {
		return v
	}
	return "unknown"
}
