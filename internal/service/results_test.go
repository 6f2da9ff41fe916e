package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

type memDocRepo struct {
	docs map[uuid.UUID][]*models.Document
}

func (r *memDocRepo) GetDocumentByID(id uuid.UUID) (*models.Document, error) {
	return nil, repository.ErrNotFound
}

func (r *memDocRepo) GetDocumentsByBatch(batchID uuid.UUID) ([]*models.Document, error) {
	return r.docs[batchID], nil
}

func (r *memDocRepo) UpdateDocumentStatus(id uuid.UUID, status string) error { return nil }

func (r *memDocRepo) UpdateDocumentAIResult(id uuid.UUID, score, confidence float64, provider string, isAI bool) error {
	return nil
}

func (r *memDocRepo) UpdateDocumentEmbedding(id uuid.UUID, embedding []float64) error { return nil }

func (r *memDocRepo) GetEmbeddedPeers(batchID, excludeID uuid.UUID) ([]*models.Document, error) {
	return nil, nil
}

type memCompRepo struct {
	byDoc map[uuid.UUID][]*repository.ComparisonWithFilename
}

func (r *memCompRepo) SaveComparison(comp *models.Comparison) error { return nil }

func (r *memCompRepo) GetComparisonsForDocument(docID uuid.UUID) ([]*repository.ComparisonWithFilename, error) {
	return r.byDoc[docID], nil
}

func TestGetBatchResults(t *testing.T) {
	owner := uuid.New()
	batch := &models.Batch{ID: uuid.New(), UserID: owner, Status: models.BatchStatusCompleted}

	score, conf := 0.82, 0.64
	flagged := true
	provider := "local"
	docWithAI := &models.Document{
		ID:            uuid.New(),
		BatchID:       batch.ID,
		Filename:      "essay.txt",
		Status:        models.DocStatusCompleted,
		AIScore:       &score,
		AIConfidence:  &conf,
		AIProvider:    &provider,
		IsAIGenerated: &flagged,
	}
	docFailed := &models.Document{
		ID:       uuid.New(),
		BatchID:  batch.ID,
		Filename: "broken.pdf",
		Status:   models.DocStatusFailed,
	}

	batchRepo := newMemBatchRepo()
	batchRepo.batches = append(batchRepo.batches, batch)
	docRepo := &memDocRepo{docs: map[uuid.UUID][]*models.Document{
		batch.ID: {docWithAI, docFailed},
	}}
	compRepo := &memCompRepo{byDoc: map[uuid.UUID][]*repository.ComparisonWithFilename{
		docWithAI.ID: {
			{
				Comparison:    models.Comparison{DocA: docWithAI.ID, DocB: docFailed.ID, Similarity: 0.91},
				MatchFilename: "broken.pdf",
			},
		},
	}}

	svc := NewResultsService(batchRepo, docRepo, compRepo, zap.NewNop())

	results, err := svc.GetBatchResults(owner, batch.ID)
	if err != nil {
		t.Fatalf("GetBatchResults: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	first := results[0]
	if first.Filename != "essay.txt" || first.Status != models.DocStatusCompleted {
		t.Fatalf("first result = %+v", first)
	}
	if first.AIAnalysis.Score == nil || *first.AIAnalysis.Score != score {
		t.Fatalf("ai score = %v, want %v", first.AIAnalysis.Score, score)
	}
	if len(first.PlagiarismAnalysis) != 1 {
		t.Fatalf("got %d plagiarism matches, want 1", len(first.PlagiarismAnalysis))
	}
	if m := first.PlagiarismAnalysis[0]; m.SimilarDocument != "broken.pdf" || m.Similarity != 0.91 {
		t.Fatalf("match = %+v", m)
	}

	second := results[1]
	if second.Status != models.DocStatusFailed {
		t.Fatalf("second status = %q, want failed", second.Status)
	}
	if second.AIAnalysis.Score != nil {
		t.Fatal("failed document must carry no AI score")
	}
	if len(second.PlagiarismAnalysis) != 0 {
		t.Fatal("failed document must carry no matches")
	}
}

func TestGetBatchResults_Ownership(t *testing.T) {
	owner := uuid.New()
	batch := &models.Batch{ID: uuid.New(), UserID: owner}

	batchRepo := newMemBatchRepo()
	batchRepo.batches = append(batchRepo.batches, batch)
	svc := NewResultsService(batchRepo, &memDocRepo{}, &memCompRepo{}, zap.NewNop())

	if _, err := svc.GetBatchResults(uuid.New(), batch.ID); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("foreign batch error = %v, want ErrBatchNotFound", err)
	}
	if _, err := svc.GetBatchResults(owner, uuid.New()); !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("missing batch error = %v, want ErrBatchNotFound", err)
	}
	if _, err := svc.GetBatchResults(owner, batch.ID); err != nil {
		t.Fatalf("owner access: %v", err)
	}
}
