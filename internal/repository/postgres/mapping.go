package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"tradedocs/internal/model"
	"tradedocs/internal/repository"
)

// MappingPostgres is a PostgreSQL implementation of repository.MappingRepository.
type MappingPostgres struct {
	db *sql.DB
}

// NewMappingPostgres creates a new MappingPostgres repository.
func NewMappingPostgres(db *sql.DB) *MappingPostgres {
	return &MappingPostgres{db: db}
}

var _ repository.MappingRepository = (*MappingPostgres)(nil)

const mappingColumns = `id, from_company_id, to_company_id, from_product_code, to_product_code,
		confidence_score, usage_count, is_manual, created_by, last_used, created_at, updated_at`

func scanMapping(row interface{ Scan(...any) error }) (*model.ProductMapping, error) {
	var m model.ProductMapping
	err := row.Scan(
		&m.ID,
		&m.FromCompanyID,
		&m.ToCompanyID,
		&m.FromProductCode,
		&m.ToProductCode,
		&m.ConfidenceScore,
		&m.UsageCount,
		&m.IsManual,
		&m.CreatedBy,
		&m.LastUsed,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MappingPostgres) collect(rows *sql.Rows) ([]model.ProductMapping, error) {
	defer rows.Close()
	items := make([]model.ProductMapping, 0)
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// FindByID returns a mapping by ID, or (nil, nil) when it does not exist.
func (r *MappingPostgres) FindByID(ctx context.Context, id string) (*model.ProductMapping, error) {
	const q = `SELECT ` + mappingColumns + ` FROM product_mappings WHERE id = $1`
	m, err := scanMapping(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// FindByCompanies returns every mapping for a company pair, best first.
func (r *MappingPostgres) FindByCompanies(ctx context.Context, fromCompany, toCompany string) ([]model.ProductMapping, error) {
	const q = `SELECT ` + mappingColumns + `
		FROM product_mappings
		WHERE from_company_id = $1 AND to_company_id = $2
		ORDER BY confidence_score DESC, usage_count DESC`
	rows, err := r.db.QueryContext(ctx, q, fromCompany, toCompany)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// FindBestMatch returns the top case-insensitive substring match on the
// source code, or (nil, nil) when nothing matches.
func (r *MappingPostgres) FindBestMatch(ctx context.Context, fromCompany, toCompany, code string) (*model.ProductMapping, error) {
	const q = `SELECT ` + mappingColumns + `
		FROM product_mappings
		WHERE from_company_id = $1 AND to_company_id = $2
		AND from_product_code ILIKE '%' || $3 || '%'
		ORDER BY confidence_score DESC, usage_count DESC
		LIMIT 1`
	m, err := scanMapping(r.db.QueryRowContext(ctx, q, fromCompany, toCompany, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// FindSimilar matches the term against either side of the mapping.
func (r *MappingPostgres) FindSimilar(ctx context.Context, fromCompany, toCompany, term string, limit int) ([]model.ProductMapping, error) {
	const q = `SELECT ` + mappingColumns + `
		FROM product_mappings
		WHERE from_company_id = $1 AND to_company_id = $2
		AND (from_product_code ILIKE '%' || $3 || '%' OR to_product_code ILIKE '%' || $3 || '%')
		ORDER BY confidence_score DESC, usage_count DESC
		LIMIT $4`
	rows, err := r.db.QueryContext(ctx, q, fromCompany, toCompany, term, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// CreateOrUpdate upserts on the natural key in a single statement, so two
// concurrent upserts for the same key cannot both insert or lose a usage
// increment.
func (r *MappingPostgres) CreateOrUpdate(ctx context.Context, m *repository.UpsertMapping) (*model.ProductMapping, error) {
	const q = `
		INSERT INTO product_mappings
			(id, from_company_id, to_company_id, from_product_code, to_product_code,
			 confidence_score, usage_count, is_manual, created_by, last_used, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8, now(), now(), now())
		ON CONFLICT (from_company_id, to_company_id, from_product_code)
		DO UPDATE SET to_product_code = EXCLUDED.to_product_code,
			confidence_score = EXCLUDED.confidence_score,
			usage_count = product_mappings.usage_count + 1,
			last_used = now(),
			updated_at = now()
		RETURNING ` + mappingColumns
	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		m.FromCompanyID,
		m.ToCompanyID,
		m.FromProductCode,
		m.ToProductCode,
		m.ConfidenceScore,
		m.IsManual,
		m.CreatedBy,
	)
	return scanMapping(row)
}

// UpdateConfidence sets the confidence, increments usage_count and refreshes
// last_used in one write. Returns (nil, nil) for a missing mapping.
func (r *MappingPostgres) UpdateConfidence(ctx context.Context, id string, confidence float64) (*model.ProductMapping, error) {
	const q = `
		UPDATE product_mappings
		SET confidence_score = $2, usage_count = usage_count + 1, last_used = now(), updated_at = now()
		WHERE id = $1
		RETURNING ` + mappingColumns
	m, err := scanMapping(r.db.QueryRowContext(ctx, q, id, confidence))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Stats aggregates the mapping table for a company pair.
func (r *MappingPostgres) Stats(ctx context.Context, fromCompany, toCompany string) (*model.MappingStats, error) {
	const q = `
		SELECT COUNT(*),
			COALESCE(AVG(confidence_score), 0),
			COALESCE(SUM(usage_count), 0),
			COALESCE(SUM(CASE WHEN is_manual THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN is_manual THEN 0 ELSE 1 END), 0)
		FROM product_mappings
		WHERE from_company_id = $1 AND to_company_id = $2`
	var s model.MappingStats
	err := r.db.QueryRowContext(ctx, q, fromCompany, toCompany).Scan(
		&s.TotalMappings,
		&s.AvgConfidence,
		&s.TotalUsage,
		&s.ManualMappings,
		&s.AutoMappings,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListNeedingReview returns low-confidence mappings, most used first.
func (r *MappingPostgres) ListNeedingReview(ctx context.Context, fromCompany, toCompany string, limit int) ([]model.ProductMapping, error) {
	const q = `SELECT ` + mappingColumns + `
		FROM product_mappings
		WHERE from_company_id = $1 AND to_company_id = $2
		AND confidence_score < 0.8
		ORDER BY usage_count DESC, confidence_score ASC
		LIMIT $3`
	rows, err := r.db.QueryContext(ctx, q, fromCompany, toCompany, limit)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}
