package model

import "time"

// Document status lifecycle values. A document is uploaded, marked delivered
// once background processing starts, and marked processed when field
// extraction completes.
const (
	StatusUploaded  = "uploaded"
	StatusDelivered = "delivered"
	StatusProcessed = "processed"
)

// Document represents a stored file exchanged between two companies.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID                 string       `json:"id"`
	Filename           string       `json:"filename"`
	OriginalFilename   string       `json:"original_filename"`
	StoragePath        string       `json:"storage_path"`
	Size               int64        `json:"size"`
	ContentType        string       `json:"content_type"`
	DocumentType       DocumentType `json:"document_type"`
	SenderCompanyID    string       `json:"sender_company_id"`
	RecipientCompanyID string       `json:"recipient_company_id"`
	Status             string       `json:"status"`
	ProcessedAt        *time.Time   `json:"processed_at,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}
