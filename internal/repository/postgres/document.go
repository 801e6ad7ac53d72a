package postgres

import (
	"context"
	"database/sql"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, filename, original_filename, storage_path, size, content_type,
		document_type, sender_company_id, recipient_company_id, status, processed_at, created_at`

func scanDocument(row interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	err := row.Scan(
		&d.ID,
		&d.Filename,
		&d.OriginalFilename,
		&d.StoragePath,
		&d.Size,
		&d.ContentType,
		&d.DocumentType,
		&d.SenderCompanyID,
		&d.RecipientCompanyID,
		&d.Status,
		&d.ProcessedAt,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, filename, original_filename, storage_path, size, content_type,
			document_type, sender_company_id, recipient_company_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Filename,
		doc.OriginalFilename,
		doc.StoragePath,
		doc.Size,
		doc.ContentType,
		doc.DocumentType,
		doc.SenderCompanyID,
		doc.RecipientCompanyID,
		doc.Status,
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Delete removes a document by ID. It does not return an error if the row does not exist.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// SetDocumentType updates the inferred document type.
func (r *DocumentPostgres) SetDocumentType(ctx context.Context, id string, docType model.DocumentType) error {
	const q = `UPDATE documents SET document_type = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, docType)
	return err
}

// MarkAsDelivered transitions the document into the delivered status.
func (r *DocumentPostgres) MarkAsDelivered(ctx context.Context, id string) error {
	const q = `UPDATE documents SET status = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, model.StatusDelivered)
	return err
}

// MarkAsProcessed transitions the document into the processed status.
func (r *DocumentPostgres) MarkAsProcessed(ctx context.Context, id string) error {
	const q = `UPDATE documents SET status = $2, processed_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, model.StatusProcessed)
	return err
}
