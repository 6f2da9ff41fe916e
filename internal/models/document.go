package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Document statuses. "completed" and "failed" are terminal; a document
// transitions independently of its siblings.
const (
	DocStatusQueued     = "queued"
	DocStatusProcessing = "processing"
	DocStatusCompleted  = "completed"
	DocStatusFailed     = "failed"
)

// Document represents one unit of submitted content within a batch, stored
// in the 'documents' table. The embedding is present only if plagiarism
// analysis ran over non-empty text.
type Document struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	BatchID       uuid.UUID       `db:"batch_id" json:"batch_id"`
	Filename      string          `db:"filename" json:"filename"`
	StoragePath   string          `db:"storage_path" json:"storage_path"`
	TextContent   string          `db:"text_content" json:"-"`
	Status        string          `db:"status" json:"status"`
	AIScore       *float64        `db:"ai_score" json:"ai_score,omitempty"`
	AIConfidence  *float64        `db:"ai_confidence" json:"ai_confidence,omitempty"`
	AIProvider    *string         `db:"ai_provider" json:"ai_provider,omitempty"`
	IsAIGenerated *bool           `db:"is_ai_generated" json:"is_ai_generated,omitempty"`
	Embedding     pq.Float64Array `db:"embedding" json:"-"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// Terminal reports whether the document has reached a final status. The
// worker uses this to skip already-finished documents on job re-delivery.
func (d *Document) Terminal() bool {
	return d.Status == DocStatusCompleted || d.Status == DocStatusFailed
}
