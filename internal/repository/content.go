package repository

import (
	"context"

	"tradedocs/internal/model"
)

// ContentRepository persists extracted document fields.
type ContentRepository interface {
	// Upsert writes a field value keyed by (document_id, field_name).
	// Calling it again for the same key replaces the value; the write is
	// idempotent per field name.
	Upsert(ctx context.Context, documentID, fieldName, fieldValue string, confidence float64, verified bool) (*model.ExtractedField, error)

	// ListByDocument returns all fields extracted for a document.
	ListByDocument(ctx context.Context, documentID string) ([]model.ExtractedField, error)
}
