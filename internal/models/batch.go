package models

import (
	"time"

	"github.com/google/uuid"
)

// Batch statuses. A batch has no failed state: the worker always drives it
// to "completed" once the document loop finishes.
const (
	BatchStatusQueued     = "queued"
	BatchStatusProcessing = "processing"
	BatchStatusCompleted  = "completed"
)

// Analysis types resolved from the submission options.
const (
	AnalysisTypeAI         = "ai"
	AnalysisTypePlagiarism = "plagiarism"
	AnalysisTypeMixed      = "mixed"
)

// Batch represents one analysis request stored in the 'batches' table.
// TotalDocs is fixed at ingestion time and never changes; ProcessedDocs is
// recomputed once, at batch completion, as the count of completed documents.
type Batch struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"user_id"`
	TotalDocs     int       `db:"total_docs" json:"total_docs"`
	ProcessedDocs int       `db:"processed_docs" json:"processed_docs"`
	Status        string    `db:"status" json:"status"`
	AnalysisType  string    `db:"analysis_type" json:"analysis_type"`
	AIProvider    string    `db:"ai_provider" json:"ai_provider"`
	AIThreshold   float64   `db:"ai_threshold" json:"ai_threshold"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// WantsAI reports whether the batch's analysis type includes AI detection.
func (b *Batch) WantsAI() bool {
	return b.AnalysisType == AnalysisTypeAI || b.AnalysisType == AnalysisTypeMixed
}

// WantsPlagiarism reports whether the batch's analysis type includes
// semantic similarity matching.
func (b *Batch) WantsPlagiarism() bool {
	return b.AnalysisType == AnalysisTypePlagiarism || b.AnalysisType == AnalysisTypeMixed
}
