package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/extraction"
	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/queue"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
	"github.com/rim-zghida/plagiasm-detector/internal/storage"
)

var (
	ErrNoContent      = errors.New("must provide either files or text")
	ErrInvalidOptions = errors.New("invalid analysis options")
)

// The pseudo-filename given to inline text submissions.
const inlineTextFilename = "input_text.txt"

// AnalysisOptions are the per-submission knobs.
type AnalysisOptions struct {
	Provider        string  `json:"provider"`
	AIThreshold     float64 `json:"ai_threshold"`
	CheckPlagiarism bool    `json:"check_plagiarism"`
	CheckAI         bool    `json:"check_ai"`
}

// FileUpload is one uploaded file, already read into memory.
type FileUpload struct {
	Filename string
	Data     []byte
}

// AnalysisService is the ingestion coordinator: it validates a submission,
// materializes the batch and its documents atomically, and hands the batch
// off to the dispatcher without waiting for processing.
type AnalysisService interface {
	Submit(ctx context.Context, userID uuid.UUID, text string, files []FileUpload, opts AnalysisOptions) (*models.Batch, error)
}

type analysisService struct {
	batchRepo  repository.BatchRepository
	store      storage.Store
	extractor  extraction.Extractor
	dispatcher queue.Dispatcher
	logger     *zap.Logger
}

func NewAnalysisService(
	batchRepo repository.BatchRepository,
	store storage.Store,
	extractor extraction.Extractor,
	dispatcher queue.Dispatcher,
	logger *zap.Logger,
) AnalysisService {
	return &analysisService{
		batchRepo:  batchRepo,
		store:      store,
		extractor:  extractor,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// resolveAnalysisType maps the check flags onto the stored analysis type.
func resolveAnalysisType(opts AnalysisOptions) (string, error) {
	switch {
	case opts.CheckAI && opts.CheckPlagiarism:
		return models.AnalysisTypeMixed, nil
	case opts.CheckAI:
		return models.AnalysisTypeAI, nil
	case opts.CheckPlagiarism:
		return models.AnalysisTypePlagiarism, nil
	default:
		return "", fmt.Errorf("%w: at least one analysis must be enabled", ErrInvalidOptions)
	}
}

func (s *analysisService) Submit(ctx context.Context, userID uuid.UUID, text string, files []FileUpload, opts AnalysisOptions) (*models.Batch, error) {
	if text == "" && len(files) == 0 {
		return nil, ErrNoContent
	}
	if opts.AIThreshold < 0 || opts.AIThreshold > 1 {
		return nil, fmt.Errorf("%w: ai_threshold must be in [0,1]", ErrInvalidOptions)
	}
	analysisType, err := resolveAnalysisType(opts)
	if err != nil {
		return nil, err
	}

	batchID := uuid.New()
	var docs []*models.Document

	if text != "" {
		docs = append(docs, &models.Document{
			ID:          uuid.New(),
			BatchID:     batchID,
			Filename:    inlineTextFilename,
			StoragePath: fmt.Sprintf("%s/%s", batchID, inlineTextFilename),
			TextContent: text,
			Status:      models.DocStatusQueued,
		})
	}

	for _, file := range files {
		storagePath := fmt.Sprintf("%s/%s", batchID, file.Filename)
		if err := s.store.Save(ctx, storagePath, file.Data); err != nil {
			return nil, fmt.Errorf("failed to store file %s: %w", file.Filename, err)
		}

		textContent, err := s.extractor.Extract(ctx, file.Data, file.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from %s: %w", file.Filename, err)
		}

		docs = append(docs, &models.Document{
			ID:          uuid.New(),
			BatchID:     batchID,
			Filename:    file.Filename,
			StoragePath: storagePath,
			TextContent: textContent,
			Status:      models.DocStatusQueued,
		})
	}

	batch := &models.Batch{
		ID:           batchID,
		UserID:       userID,
		TotalDocs:    len(docs),
		Status:       models.BatchStatusQueued,
		AnalysisType: analysisType,
		AIProvider:   opts.Provider,
		AIThreshold:  opts.AIThreshold,
	}

	if err := s.batchRepo.CreateBatchWithDocuments(batch, docs); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	// The caller observes the committed batch even if enqueueing fails; the
	// batch then just stays queued until a retry or manual intervention.
	if err := s.dispatcher.Enqueue(batch.ID, opts.Provider, opts.AIThreshold); err != nil {
		s.logger.Error("Failed to enqueue analysis job", zap.String("batch_id", batch.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to enqueue batch: %w", err)
	}

	s.logger.Info("Batch submitted",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("total_docs", batch.TotalDocs),
		zap.String("analysis_type", analysisType))
	return batch, nil
}
