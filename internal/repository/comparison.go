package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/models"
)

// ComparisonWithFilename joins a comparison row with the filename of the
// matched (target) document for the results endpoint.
type ComparisonWithFilename struct {
	models.Comparison
	MatchFilename string `db:"match_filename"`
}

type ComparisonRepository interface {
	SaveComparison(comp *models.Comparison) error
	// GetComparisonsForDocument returns all comparisons where the document is
	// the source, joined with the target filename, ordered by similarity
	// descending.
	GetComparisonsForDocument(docID uuid.UUID) ([]*ComparisonWithFilename, error)
}

type comparisonRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewComparisonRepository(db *sqlx.DB, logger *zap.Logger) ComparisonRepository {
	return &comparisonRepository{db: db, logger: logger}
}

func (r *comparisonRepository) SaveComparison(comp *models.Comparison) error {
	query := `INSERT INTO comparisons (id, doc_a, doc_b, similarity, matches)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowx(query, comp.ID, comp.DocA, comp.DocB, comp.Similarity, comp.Matches).
		Scan(&comp.CreatedAt)
}

func (r *comparisonRepository) GetComparisonsForDocument(docID uuid.UUID) ([]*ComparisonWithFilename, error) {
	var comps []*ComparisonWithFilename
	query := `SELECT c.id, c.doc_a, c.doc_b, c.similarity, c.matches, c.created_at,
	                 d.filename AS match_filename
	          FROM comparisons c
	          JOIN documents d ON c.doc_b = d.id
	          WHERE c.doc_a = $1
	          ORDER BY c.similarity DESC`
	if err := r.db.Select(&comps, query, docID); err != nil {
		return nil, err
	}
	return comps, nil
}
