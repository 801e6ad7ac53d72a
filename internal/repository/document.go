package repository

import (
	"context"

	"tradedocs/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns a paginated list of documents and total rows count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// SetDocumentType updates the inferred document type.
	SetDocumentType(ctx context.Context, id string, docType model.DocumentType) error

	// MarkAsDelivered transitions the document into the delivered status.
	MarkAsDelivered(ctx context.Context, id string) error

	// MarkAsProcessed transitions the document into the processed status and
	// stamps processed_at. Called exactly once when field extraction completes.
	MarkAsProcessed(ctx context.Context, id string) error
}
