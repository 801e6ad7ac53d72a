package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

var documentTestColumns = []string{
	"id", "filename", "original_filename", "storage_path", "size", "content_type",
	"document_type", "sender_company_id", "recipient_company_id", "status", "processed_at", "created_at",
}

func documentRow(id string) *sqlmock.Rows {
	return sqlmock.NewRows(documentTestColumns).
		AddRow(id, "stored.pdf", "invoice.pdf", "documents/stored.pdf", 123, "application/pdf",
			model.TypeInvoice, "acme", "globex", model.StatusUploaded, nil, time.Now())
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:                 "test-uuid",
		Filename:           "stored.pdf",
		OriginalFilename:   "invoice.pdf",
		StoragePath:        "documents/stored.pdf",
		Size:               123,
		ContentType:        "application/pdf",
		DocumentType:       model.TypeInvoice,
		SenderCompanyID:    "acme",
		RecipientCompanyID: "globex",
		Status:             model.StatusUploaded,
		CreatedAt:          now,
	}

	rows := sqlmock.NewRows(documentTestColumns).
		AddRow(doc.ID, doc.Filename, doc.OriginalFilename, doc.StoragePath, doc.Size, doc.ContentType,
			doc.DocumentType, doc.SenderCompanyID, doc.RecipientCompanyID, doc.Status, nil, doc.CreatedAt)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Filename, doc.OriginalFilename, doc.StoragePath, doc.Size, doc.ContentType,
			doc.DocumentType, doc.SenderCompanyID, doc.RecipientCompanyID, doc.Status, doc.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, "invoice.pdf", result.OriginalFilename)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("test-id").
			WillReturnRows(documentRow("test-id"))

		doc, err := repo.FindByID(ctx, "test-id")

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, "test-id", doc.ID)
		assert.Nil(t, doc.ProcessedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, doc)
	})
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs(10, 0).
		WillReturnRows(documentRow("test-id"))

	res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM documents WHERE id = ?").
		WithArgs("test-id").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Delete(ctx, "test-id")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_StatusTransitions(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("mark as delivered", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status").
			WithArgs("test-id", model.StatusDelivered).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkAsDelivered(ctx, "test-id"))
	})

	t.Run("mark as processed stamps processed_at", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET status = (.+), processed_at = now\\(\\)").
			WithArgs("test-id", model.StatusProcessed).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkAsProcessed(ctx, "test-id"))
	})

	t.Run("set document type", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents SET document_type").
			WithArgs("test-id", model.TypeSalesContract).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.SetDocumentType(ctx, "test-id", model.TypeSalesContract))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
