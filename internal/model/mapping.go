package model

import "time"

// ProductMapping is a learned translation of a product identifier between two
// companies. At most one mapping exists per
// (from_company_id, to_company_id, from_product_code).
//
// ConfidenceScore is always clamped to [0,1] and UsageCount never decreases.
type ProductMapping struct {
	ID              string    `json:"id"`
	FromCompanyID   string    `json:"from_company_id"`
	ToCompanyID     string    `json:"to_company_id"`
	FromProductCode string    `json:"from_product_code"`
	ToProductCode   string    `json:"to_product_code"`
	ConfidenceScore float64   `json:"confidence_score"`
	UsageCount      int       `json:"usage_count"`
	IsManual        bool      `json:"is_manual"`
	CreatedBy       string    `json:"created_by"`
	LastUsed        time.Time `json:"last_used"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// MappingStats aggregates the mapping table for one company pair.
type MappingStats struct {
	TotalMappings  int     `json:"total_mappings"`
	AvgConfidence  float64 `json:"avg_confidence"`
	TotalUsage     int     `json:"total_usage"`
	ManualMappings int     `json:"manual_mappings"`
	AutoMappings   int     `json:"auto_mappings"`
}
