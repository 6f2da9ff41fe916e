package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/queue"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

type memBatchRepo struct {
	batches []*models.Batch
	docs    map[uuid.UUID][]*models.Document
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{docs: make(map[uuid.UUID][]*models.Document)}
}

func (r *memBatchRepo) CreateBatchWithDocuments(batch *models.Batch, docs []*models.Document) error {
	r.batches = append(r.batches, batch)
	r.docs[batch.ID] = docs
	return nil
}

func (r *memBatchRepo) GetBatchByID(id uuid.UUID) (*models.Batch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memBatchRepo) GetBatchForUser(id, userID uuid.UUID) (*models.Batch, error) {
	b, err := r.GetBatchByID(id)
	if err != nil || b.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *memBatchRepo) ListBatchesByUser(userID uuid.UUID) ([]*models.Batch, error) {
	var out []*models.Batch
	for _, b := range r.batches {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBatchRepo) UpdateBatchStatus(id uuid.UUID, status string) error { return nil }
func (r *memBatchRepo) CompleteBatch(id uuid.UUID) error                    { return nil }

type memFileStore struct {
	saved map[string][]byte
}

func (s *memFileStore) Save(ctx context.Context, path string, data []byte) error {
	if s.saved == nil {
		s.saved = make(map[string][]byte)
	}
	s.saved[path] = data
	return nil
}

type echoExtractor struct {
	fail bool
}

func (e *echoExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	if e.fail {
		return "", errors.New("extraction service down")
	}
	return string(data), nil
}

type recordingDispatcher struct {
	enqueued []uuid.UUID
}

func (d *recordingDispatcher) Enqueue(batchID uuid.UUID, provider string, threshold float64) error {
	d.enqueued = append(d.enqueued, batchID)
	return nil
}

func (d *recordingDispatcher) Claim() (*queue.Job, error) { return nil, queue.ErrNoJobs }
func (d *recordingDispatcher) Done(jobID int64) error     { return nil }

func newTestAnalysisService() (AnalysisService, *memBatchRepo, *recordingDispatcher) {
	repo := newMemBatchRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewAnalysisService(repo, &memFileStore{}, &echoExtractor{}, dispatcher, zap.NewNop())
	return svc, repo, dispatcher
}

func defaultOpts() AnalysisOptions {
	return AnalysisOptions{Provider: "local", AIThreshold: 0.5, CheckAI: true, CheckPlagiarism: true}
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, _ := newTestAnalysisService()
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name    string
		text    string
		files   []FileUpload
		opts    AnalysisOptions
		wantErr error
	}{
		{
			name:    "no content",
			opts:    defaultOpts(),
			wantErr: ErrNoContent,
		},
		{
			name:    "threshold above one",
			text:    "some text",
			opts:    AnalysisOptions{Provider: "local", AIThreshold: 1.5, CheckAI: true},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "threshold below zero",
			text:    "some text",
			opts:    AnalysisOptions{Provider: "local", AIThreshold: -0.1, CheckAI: true},
			wantErr: ErrInvalidOptions,
		},
		{
			name:    "no analysis enabled",
			text:    "some text",
			opts:    AnalysisOptions{Provider: "local", AIThreshold: 0.5},
			wantErr: ErrInvalidOptions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(ctx, userID, tt.text, tt.files, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Submit error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmit_AnalysisTypeResolution(t *testing.T) {
	tests := []struct {
		name     string
		ai, plag bool
		want     string
	}{
		{"both", true, true, models.AnalysisTypeMixed},
		{"ai only", true, false, models.AnalysisTypeAI},
		{"plagiarism only", false, true, models.AnalysisTypePlagiarism},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAnalysisService()
			opts := AnalysisOptions{Provider: "local", AIThreshold: 0.5, CheckAI: tt.ai, CheckPlagiarism: tt.plag}
			batch, err := svc.Submit(context.Background(), uuid.New(), "essay text", nil, opts)
			if err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if batch.AnalysisType != tt.want {
				t.Fatalf("analysis type = %q, want %q", batch.AnalysisType, tt.want)
			}
		})
	}
}

func TestSubmit_TextAndFiles(t *testing.T) {
	svc, repo, dispatcher := newTestAnalysisService()
	userID := uuid.New()
	files := []FileUpload{
		{Filename: "a.txt", Data: []byte("contents of a")},
		{Filename: "b.txt", Data: []byte("contents of b")},
	}

	batch, err := svc.Submit(context.Background(), userID, "inline text", files, defaultOpts())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if batch.TotalDocs != 3 {
		t.Fatalf("total_docs = %d, want 3 (text + 2 files)", batch.TotalDocs)
	}
	if batch.Status != models.BatchStatusQueued {
		t.Fatalf("batch status = %q, want queued", batch.Status)
	}
	if batch.UserID != userID {
		t.Fatalf("batch user = %s, want %s", batch.UserID, userID)
	}

	docs := repo.docs[batch.ID]
	if len(docs) != 3 {
		t.Fatalf("persisted %d documents, want 3", len(docs))
	}
	if docs[0].Filename != inlineTextFilename || docs[0].TextContent != "inline text" {
		t.Fatalf("inline document = %q/%q", docs[0].Filename, docs[0].TextContent)
	}
	for _, d := range docs {
		if d.BatchID != batch.ID {
			t.Fatalf("document %s belongs to batch %s", d.ID, d.BatchID)
		}
		if d.Status != models.DocStatusQueued {
			t.Fatalf("document status = %q, want queued", d.Status)
		}
	}

	if len(dispatcher.enqueued) != 1 || dispatcher.enqueued[0] != batch.ID {
		t.Fatalf("enqueued = %v, want exactly the new batch", dispatcher.enqueued)
	}
}

func TestSubmit_RepeatSubmissionsAreDistinct(t *testing.T) {
	svc, repo, _ := newTestAnalysisService()
	userID := uuid.New()

	first, err := svc.Submit(context.Background(), userID, "same text", nil, defaultOpts())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := svc.Submit(context.Background(), userID, "same text", nil, defaultOpts())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	if first.ID == second.ID {
		t.Fatal("identical submissions must produce distinct batches")
	}
	if len(repo.batches) != 2 {
		t.Fatalf("persisted %d batches, want 2", len(repo.batches))
	}
}

func TestSubmit_ExtractionFailure(t *testing.T) {
	repo := newMemBatchRepo()
	svc := NewAnalysisService(repo, &memFileStore{}, &echoExtractor{fail: true}, &recordingDispatcher{}, zap.NewNop())

	files := []FileUpload{{Filename: "broken.pdf", Data: []byte{0x25, 0x50}}}
	if _, err := svc.Submit(context.Background(), uuid.New(), "", files, defaultOpts()); err == nil {
		t.Fatal("extraction failure must fail the submission")
	}
	if len(repo.batches) != 0 {
		t.Fatal("failed submission must not persist a batch")
	}
}
