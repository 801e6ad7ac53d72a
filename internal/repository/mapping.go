package repository

import (
	"context"

	"tradedocs/internal/model"
)

// UpsertMapping carries the values for a mapping create-or-update. The
// natural key is (FromCompanyID, ToCompanyID, FromProductCode).
type UpsertMapping struct {
	FromCompanyID   string
	ToCompanyID     string
	FromProductCode string
	ToProductCode   string
	ConfidenceScore float64
	IsManual        bool
	CreatedBy       string
}

// MappingRepository persists learned product-code translations between
// company pairs. Lookup methods that find nothing return (nil, nil);
// absence is a normal outcome, not an error.
type MappingRepository interface {
	// FindByID returns a mapping by ID, or (nil, nil) when it does not exist.
	FindByID(ctx context.Context, id string) (*model.ProductMapping, error)

	// FindByCompanies returns every mapping for a company pair ordered by
	// confidence desc, usage desc.
	FindByCompanies(ctx context.Context, fromCompany, toCompany string) ([]model.ProductMapping, error)

	// FindBestMatch returns the top mapping whose from_product_code contains
	// the given code (case-insensitive), ordered by confidence then usage.
	FindBestMatch(ctx context.Context, fromCompany, toCompany, code string) (*model.ProductMapping, error)

	// FindSimilar returns up to limit mappings whose source or target code
	// contains the search term, same ordering as FindBestMatch.
	FindSimilar(ctx context.Context, fromCompany, toCompany, term string, limit int) ([]model.ProductMapping, error)

	// CreateOrUpdate upserts atomically on the natural key: an existing row
	// gets its target code and confidence replaced, usage_count incremented
	// and last_used refreshed; a missing row is inserted with usage_count 0.
	// Concurrent upserts for the same key never produce duplicate rows or
	// lost usage increments.
	CreateOrUpdate(ctx context.Context, m *UpsertMapping) (*model.ProductMapping, error)

	// UpdateConfidence sets a new confidence score, increments usage_count
	// and refreshes last_used in a single write. Returns (nil, nil) when the
	// mapping does not exist.
	UpdateConfidence(ctx context.Context, id string, confidence float64) (*model.ProductMapping, error)

	// Stats aggregates the mapping table for a company pair.
	Stats(ctx context.Context, fromCompany, toCompany string) (*model.MappingStats, error)

	// ListNeedingReview returns mappings below 0.8 confidence ordered by
	// usage desc then confidence asc, bounded by limit.
	ListNeedingReview(ctx context.Context, fromCompany, toCompany string, limit int) ([]model.ProductMapping, error)
}
