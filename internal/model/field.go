package model

import "time"

// ExtractedField is one named datum pulled out of a document during
// processing. Fields are keyed by (document_id, field_name) and overwritten
// in place when a reviewer submits a corrected value.
type ExtractedField struct {
	ID              string    `json:"id"`
	DocumentID      string    `json:"document_id"`
	FieldName       string    `json:"field_name"`
	FieldValue      string    `json:"field_value"`
	ConfidenceScore float64   `json:"confidence_score"`
	IsVerified      bool      `json:"is_verified"`
	UpdatedAt       time.Time `json:"updated_at"`
}
