package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchSpan is one fine-grained overlap between two documents: a chunk of
// the source text aligned against a chunk of the target text.
type MatchSpan struct {
	SourceOffset int     `json:"source_offset"`
	TargetOffset int     `json:"target_offset"`
	Length       int     `json:"length"`
	Text         string  `json:"text,omitempty"`
	Score        float64 `json:"score"`
}

// MatchSpans is stored as JSONB in the 'comparisons' table.
type MatchSpans []MatchSpan

func (m MatchSpans) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(m)
}

func (m *MatchSpans) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type %T for MatchSpans", src)
	}
}

// Comparison is one directed pairwise similarity result: DocA is the
// document that was being processed, DocB the matched peer in the same
// batch. Rows are immutable once written and never deduplicated.
type Comparison struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	DocA       uuid.UUID  `db:"doc_a" json:"doc_a"`
	DocB       uuid.UUID  `db:"doc_b" json:"doc_b"`
	Similarity float64    `db:"similarity" json:"similarity"`
	Matches    MatchSpans `db:"matches" json:"matches"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}
