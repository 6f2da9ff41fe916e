package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DetectionMeta is the free-form metadata payload of one detection
// invocation, stored as JSONB.
type DetectionMeta map[string]interface{}

func (m DetectionMeta) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *DetectionMeta) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type %T for DetectionMeta", src)
	}
}

// AIDetection is an append-only audit record of one AI detector invocation
// against a document. Records are never updated.
type AIDetection struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	DocumentID   uuid.UUID     `db:"document_id" json:"document_id"`
	ModelVersion string        `db:"model_version" json:"model_version"`
	Probability  float64       `db:"probability" json:"probability"`
	Metadata     DetectionMeta `db:"metadata" json:"metadata"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
}
