package repository

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

// ErrNotFound is returned when a requested row does not exist (or is not
// visible to the caller).
var ErrNotFound = errors.New("not found")

type BatchRepository interface {
	// CreateBatchWithDocuments commits the batch and all of its documents in
	// one transaction; the caller never observes a batch without its
	// documents. TotalDocs is set here and never updated again.
	CreateBatchWithDocuments(batch *models.Batch, docs []*models.Document) error
	GetBatchByID(id uuid.UUID) (*models.Batch, error)
	GetBatchForUser(id, userID uuid.UUID) (*models.Batch, error)
	ListBatchesByUser(userID uuid.UUID) ([]*models.Batch, error)
	UpdateBatchStatus(id uuid.UUID, status string) error
	// CompleteBatch marks the batch completed and records processed_docs as
	// the count of its documents in the completed state.
	CompleteBatch(id uuid.UUID) error
}

type batchRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewBatchRepository(db *sqlx.DB, logger *zap.Logger) BatchRepository {
	return &batchRepository{db: db, logger: logger}
}

func (r *batchRepository) CreateBatchWithDocuments(batch *models.Batch, docs []*models.Document) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	batchQuery := `INSERT INTO batches (id, user_id, total_docs, processed_docs, status, analysis_type, ai_provider, ai_threshold)
	               VALUES ($1, $2, $3, 0, $4, $5, $6, $7) RETURNING created_at`
	if err := tx.QueryRowx(batchQuery, batch.ID, batch.UserID, batch.TotalDocs, batch.Status,
		batch.AnalysisType, batch.AIProvider, batch.AIThreshold).Scan(&batch.CreatedAt); err != nil {
		return err
	}

	docQuery := `INSERT INTO documents (id, batch_id, filename, storage_path, text_content, status)
	             VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	for _, doc := range docs {
		if err := tx.QueryRowx(docQuery, doc.ID, doc.BatchID, doc.Filename, doc.StoragePath,
			doc.TextContent, doc.Status).Scan(&doc.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *batchRepository) GetBatchByID(id uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	query := `SELECT id, user_id, total_docs, processed_docs, status, analysis_type, ai_provider, ai_threshold, created_at
	          FROM batches WHERE id = $1`
	if err := r.db.Get(&batch, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) GetBatchForUser(id, userID uuid.UUID) (*models.Batch, error) {
	var batch models.Batch
	query := `SELECT id, user_id, total_docs, processed_docs, status, analysis_type, ai_provider, ai_threshold, created_at
	          FROM batches WHERE id = $1 AND user_id = $2`
	if err := r.db.Get(&batch, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) ListBatchesByUser(userID uuid.UUID) ([]*models.Batch, error) {
	var batches []*models.Batch
	query := `SELECT id, user_id, total_docs, processed_docs, status, analysis_type, ai_provider, ai_threshold, created_at
	          FROM batches WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.Select(&batches, query, userID); err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) UpdateBatchStatus(id uuid.UUID, status string) error {
	_, err := r.db.Exec(`UPDATE batches SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (r *batchRepository) CompleteBatch(id uuid.UUID) error {
	query := `UPDATE batches
	          SET status = $1,
	              processed_docs = (SELECT COUNT(*) FROM documents WHERE batch_id = $2 AND status = $3)
	          WHERE id = $2`
	_, err := r.db.Exec(query, models.BatchStatusCompleted, id, models.DocStatusCompleted)
	return err
}
