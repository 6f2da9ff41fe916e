package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

type DetectionRepository interface {
	// SaveDetection appends one audit record; rows are never updated.
	SaveDetection(det *models.AIDetection) error
	GetDetectionsByDocument(docID uuid.UUID) ([]*models.AIDetection, error)
}

type detectionRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewDetectionRepository(db *sqlx.DB, logger *zap.Logger) DetectionRepository {
	return &detectionRepository{db: db, logger: logger}
}

func (r *detectionRepository) SaveDetection(det *models.AIDetection) error {
	query := `INSERT INTO ai_detections (id, document_id, model_version, probability, metadata)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowx(query, det.ID, det.DocumentID, det.ModelVersion, det.Probability, det.Metadata).
		Scan(&det.CreatedAt)
}

func (r *detectionRepository) GetDetectionsByDocument(docID uuid.UUID) ([]*models.AIDetection, error) {
	var dets []*models.AIDetection
	query := `SELECT id, document_id, model_version, probability, metadata, created_at
	          FROM ai_detections WHERE document_id = $1 ORDER BY created_at`
	if err := r.db.Select(&dets, query, docID); err != nil {
		return nil, err
	}
	return dets, nil
}
