package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tradedocs/internal/classify"
	"tradedocs/internal/model"
	"tradedocs/internal/repository"
	"tradedocs/internal/storage"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("document not found")
	ErrReaderNil         = errors.New("reader is nil")
	ErrCompaniesRequired = errors.New("sender and recipient companies are required")
)

// UploadRequest carries everything needed to accept a document.
// DocumentType may be empty, in which case a type is inferred from the
// filename extension until text analysis refines it.
type UploadRequest struct {
	Reader             io.Reader
	OriginalFilename   string
	ContentType        string
	Size               int64
	SenderCompanyID    string
	RecipientCompanyID string
	DocumentType       model.DocumentType
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload streams the content to object storage and saves metadata to the
	// DB, rolling back the stored object if the DB save fails. The document
	// starts in the uploaded status.
	Upload(ctx context.Context, req UploadRequest) (*model.Document, error)

	// List returns documents using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)

	// Get returns a single document by its ID.
	Get(ctx context.Context, id string) (*model.Document, error)

	// DownloadURL returns a time-limited URL for the document's content.
	DownloadURL(ctx context.Context, id string) (string, error)

	// Delete removes a document by ID from both storage and repository.
	Delete(ctx context.Context, id string) error
}

type documentService struct {
	store         storage.Storage
	repo          repository.DocumentRepository
	presignExpiry time.Duration
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, presignExpiry time.Duration) DocumentService {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &documentService{store: store, repo: repo, presignExpiry: presignExpiry}
}

func (s *documentService) Upload(ctx context.Context, req UploadRequest) (*model.Document, error) {
	if req.Reader == nil {
		return nil, ErrReaderNil
	}
	if req.SenderCompanyID == "" || req.RecipientCompanyID == "" {
		return nil, ErrCompaniesRequired
	}

	ext := filepath.Ext(req.OriginalFilename)
	genName := uuid.New().String() + ext
	key := filepath.ToSlash(filepath.Join("documents", genName))

	objInfo, err := s.store.Put(ctx, key, req.Reader, storage.PutObjectOptions{
		Size:        req.Size,
		ContentType: req.ContentType,
		Metadata: map[string]string{
			"original-filename": req.OriginalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	docType := req.DocumentType
	if docType == "" {
		docType = classify.FromExtension(req.OriginalFilename)
	}

	doc := &model.Document{
		ID:                 uuid.New().String(),
		Filename:           genName,
		OriginalFilename:   req.OriginalFilename,
		StoragePath:        objInfo.Key,
		Size:               objInfo.Size,
		ContentType:        objInfo.ContentType,
		DocumentType:       docType,
		SenderCompanyID:    req.SenderCompanyID,
		RecipientCompanyID: req.RecipientCompanyID,
		Status:             model.StatusUploaded,
		CreatedAt:          time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, doc)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	url, err := s.store.PresignGet(ctx, doc.StoragePath, s.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// Delete removes the stored object first so a failed storage delete keeps
// the DB row pointing at it.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if err := s.store.Delete(ctx, doc.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
