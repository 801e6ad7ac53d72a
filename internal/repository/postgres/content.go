package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

// ContentPostgres is a PostgreSQL implementation of repository.ContentRepository.
type ContentPostgres struct {
	db *sql.DB
}

// NewContentPostgres creates a new ContentPostgres repository.
func NewContentPostgres(db *sql.DB) *ContentPostgres {
	return &ContentPostgres{db: db}
}

var _ repository.ContentRepository = (*ContentPostgres)(nil)

const contentColumns = `id, document_id, field_name, field_value, confidence_score, is_verified, updated_at`

// Upsert writes a field value keyed by (document_id, field_name). The unique
// index on that pair makes the write idempotent per field name.
func (r *ContentPostgres) Upsert(ctx context.Context, documentID, fieldName, fieldValue string, confidence float64, verified bool) (*model.ExtractedField, error) {
	const q = `
		INSERT INTO document_content (id, document_id, field_name, field_value, confidence_score, is_verified, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (document_id, field_name)
		DO UPDATE SET field_value = EXCLUDED.field_value,
			confidence_score = EXCLUDED.confidence_score,
			is_verified = EXCLUDED.is_verified,
			updated_at = now()
		RETURNING ` + contentColumns
	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		documentID,
		fieldName,
		fieldValue,
		confidence,
		verified,
	)
	var f model.ExtractedField
	if err := row.Scan(&f.ID, &f.DocumentID, &f.FieldName, &f.FieldValue, &f.ConfidenceScore, &f.IsVerified, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByDocument returns all fields extracted for a document, stable by field name.
func (r *ContentPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.ExtractedField, error) {
	const q = `SELECT ` + contentColumns + `
		FROM document_content
		WHERE document_id = $1
		ORDER BY field_name`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ExtractedField, 0)
	for rows.Next() {
		var f model.ExtractedField
		if err := rows.Scan(&f.ID, &f.DocumentID, &f.FieldName, &f.FieldValue, &f.ConfidenceScore, &f.IsVerified, &f.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
