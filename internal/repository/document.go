package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

type DocumentRepository interface {
	GetDocumentByID(id uuid.UUID) (*models.Document, error)
	GetDocumentsByBatch(batchID uuid.UUID) ([]*models.Document, error)
	UpdateDocumentStatus(id uuid.UUID, status string) error
	UpdateDocumentAIResult(id uuid.UUID, score, confidence float64, provider string, isAI bool) error
	UpdateDocumentEmbedding(id uuid.UUID, embedding []float64) error
	// GetEmbeddedPeers returns the other documents of the batch that already
	// carry an embedding, i.e. the candidate set for similarity matching.
	GetEmbeddedPeers(batchID, excludeID uuid.UUID) ([]*models.Document, error)
}

type documentRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDocumentRepository(db *sqlx.DB, logger *zap.Logger) DocumentRepository {
	return &documentRepository{db: db, logger: logger}
}

const documentColumns = `id, batch_id, filename, storage_path, text_content, status,
	ai_score, ai_confidence, ai_provider, is_ai_generated, embedding, created_at`

func (r *documentRepository) GetDocumentByID(id uuid.UUID) (*models.Document, error) {
	var doc models.Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	if err := r.db.Get(&doc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) GetDocumentsByBatch(batchID uuid.UUID) ([]*models.Document, error) {
	var docs []*models.Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE batch_id = $1 ORDER BY created_at, id`
	if err := r.db.Select(&docs, query, batchID); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) UpdateDocumentStatus(id uuid.UUID, status string) error {
	_, err := r.db.Exec(`UPDATE documents SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *documentRepository) UpdateDocumentAIResult(id uuid.UUID, score, confidence float64, provider string, isAI bool) error {
	query := `UPDATE documents SET ai_score = $1, ai_confidence = $2, ai_provider = $3, is_ai_generated = $4 WHERE id = $5`
	_, err := r.db.Exec(query, score, confidence, provider, isAI, id)
	return err
}

func (r *documentRepository) UpdateDocumentEmbedding(id uuid.UUID, embedding []float64) error {
	_, err := r.db.Exec(`UPDATE documents SET embedding = $1 WHERE id = $2`, pq.Float64Array(embedding), id)
	return err
}

func (r *documentRepository) GetEmbeddedPeers(batchID, excludeID uuid.UUID) ([]*models.Document, error) {
	var docs []*models.Document
	query := `SELECT ` + documentColumns + ` FROM documents
	          WHERE batch_id = $1 AND id <> $2 AND embedding IS NOT NULL
	          ORDER BY created_at, id`
	if err := r.db.Select(&docs, query, batchID, excludeID); err != nil {
		return nil, err
	}
	return docs, nil
}
