package service

import (
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

var ErrBatchNotFound = errors.New("batch not found")

// AIAnalysis is the AI portion of a document result. Fields stay nil when
// AI detection never ran for the document.
type AIAnalysis struct {
	Score      *float64 `json:"score"`
	IsAI       *bool    `json:"is_ai"`
	Confidence *float64 `json:"confidence"`
	Provider   *string  `json:"provider"`
}

// PlagiarismMatch is one similar peer of a document, ordered by similarity
// descending in the composite result.
type PlagiarismMatch struct {
	SimilarDocument string            `json:"similar_document"`
	Similarity      float64           `json:"similarity"`
	Matches         models.MatchSpans `json:"matches"`
}

// DocumentResult is the composite per-document view of a finished (or
// in-flight) batch.
type DocumentResult struct {
	DocumentID         string            `json:"document_id"`
	Filename           string            `json:"filename"`
	Status             string            `json:"status"`
	AIAnalysis         AIAnalysis        `json:"ai_analysis"`
	PlagiarismAnalysis []PlagiarismMatch `json:"plagiarism_analysis"`
}

// ResultsService assembles the read-side composite report.
type ResultsService interface {
	ListBatches(userID uuid.UUID) ([]*models.Batch, error)
	// GetBatchResults fails with ErrBatchNotFound when the batch does not
	// exist or belongs to a different user.
	GetBatchResults(userID, batchID uuid.UUID) ([]DocumentResult, error)
}

type resultsService struct {
	batchRepo repository.BatchRepository
	docRepo   repository.DocumentRepository
	compRepo  repository.ComparisonRepository
	logger    *zap.Logger
}

func NewResultsService(
	batchRepo repository.BatchRepository,
	docRepo repository.DocumentRepository,
	compRepo repository.ComparisonRepository,
	logger *zap.Logger,
) ResultsService {
	return &resultsService{batchRepo: batchRepo, docRepo: docRepo, compRepo: compRepo, logger: logger}
}

func (s *resultsService) ListBatches(userID uuid.UUID) ([]*models.Batch, error) {
	return s.batchRepo.ListBatchesByUser(userID)
}

func (s *resultsService) GetBatchResults(userID, batchID uuid.UUID) ([]DocumentResult, error) {
	if _, err := s.batchRepo.GetBatchForUser(batchID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}

	docs, err := s.docRepo.GetDocumentsByBatch(batchID)
	if err != nil {
		return nil, err
	}

	results := make([]DocumentResult, 0, len(docs))
	for _, doc := range docs {
		comps, err := s.compRepo.GetComparisonsForDocument(doc.ID)
		if err != nil {
			return nil, err
		}

		matches := make([]PlagiarismMatch, 0, len(comps))
		for _, comp := range comps {
			matches = append(matches, PlagiarismMatch{
				SimilarDocument: comp.MatchFilename,
				Similarity:      comp.Similarity,
				Matches:         comp.Matches,
			})
		}

		results = append(results, DocumentResult{
			DocumentID: doc.ID.String(),
			Filename:   doc.Filename,
			Status:     doc.Status,
			AIAnalysis: AIAnalysis{
				Score:      doc.AIScore,
				IsAI:       doc.IsAIGenerated,
				Confidence: doc.AIConfidence,
				Provider:   doc.AIProvider,
			},
			PlagiarismAnalysis: matches,
		})
	}
	return results, nil
}
