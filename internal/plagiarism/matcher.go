// Package plagiarism computes semantic similarity between the documents of
// one batch and extracts fine-grained match spans for strongly similar
// pairs.
package plagiarism

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rim-zghida/plagiasm-detector/internal/embedding"
	"github.com/rim-zghida/plagiasm-detector/internal/models"
	"github.com/rim-zghida/plagiasm-detector/internal/repository"
)

// Similarity policy, fixed here: pairs below ReportFloor are omitted from
// results entirely; pairs in [ReportFloor, MatchThreshold) are reported
// with similarity only; pairs at or above MatchThreshold also get
// chunk-aligned match spans.
const (
	ReportFloor    = 0.30
	MatchThreshold = 0.70
)

// SimilarResult is one matched peer of a processed document.
type SimilarResult struct {
	DocumentID uuid.UUID
	Similarity float64
	Matches    models.MatchSpans
}

// Matcher owns both phases of plagiarism analysis: embedding the batch and
// comparing each document against its already-embedded peers.
type Matcher struct {
	embedder embedding.Embedder
	docRepo  repository.DocumentRepository
	logger   *zap.Logger
}

func NewMatcher(embedder embedding.Embedder, docRepo repository.DocumentRepository, logger *zap.Logger) *Matcher {
	return &Matcher{embedder: embedder, docRepo: docRepo, logger: logger}
}

// Available reports whether an embedding model can be used.
func (m *Matcher) Available() bool {
	return m.embedder != nil && m.embedder.Available()
}

// EmbedAll is the first phase of the batch barrier: compute and persist an
// embedding for every document with non-empty text before any comparison
// runs, so similarity coverage does not depend on processing order.
// Documents already embedded (job re-delivery) are skipped. Per-document
// failures are returned keyed by document id; they do not stop the phase.
func (m *Matcher) EmbedAll(ctx context.Context, docs []*models.Document) map[uuid.UUID]error {
	failures := make(map[uuid.UUID]error)
	for _, doc := range docs {
		if doc.TextContent == "" || len(doc.Embedding) > 0 {
			continue
		}
		vec, err := m.embedder.Embed(ctx, doc.TextContent)
		if err != nil {
			m.logger.Error("Failed to embed document",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
			failures[doc.ID] = err
			continue
		}
		if err := m.docRepo.UpdateDocumentEmbedding(doc.ID, vec); err != nil {
			m.logger.Error("Failed to persist embedding",
				zap.String("document_id", doc.ID.String()), zap.Error(err))
			failures[doc.ID] = err
			continue
		}
		doc.Embedding = vec
	}
	return failures
}

// FindSimilarInBatch compares the document's embedding against every other
// embedded document of the same batch and applies the similarity policy.
func (m *Matcher) FindSimilarInBatch(ctx context.Context, doc *models.Document, batchID uuid.UUID) ([]SimilarResult, error) {
	if len(doc.Embedding) == 0 {
		return nil, fmt.Errorf("document %s has no embedding", doc.ID)
	}

	peers, err := m.docRepo.GetEmbeddedPeers(batchID, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded peers: %w", err)
	}

	var results []SimilarResult
	for _, peer := range peers {
		sim := embedding.Cosine(doc.Embedding, peer.Embedding)
		if sim < ReportFloor {
			continue
		}

		res := SimilarResult{DocumentID: peer.ID, Similarity: sim}
		if sim >= MatchThreshold {
			res.Matches = AlignChunks(doc.TextContent, peer.TextContent)
		}
		results = append(results, res)
	}
	return results, nil
}
