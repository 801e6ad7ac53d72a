package fields

import (
	"regexp"

	"tradedocs/internal/model"
)

// fieldRule binds a field name to the pattern that captures its value.
// Patterns are case-insensitive but run against the original text so captured
// values keep their source casing.
type fieldRule struct {
	name    string
	pattern *regexp.Regexp
}

// rulesByType is the dispatch table from document type to its rule set.
// Types without an entry (and the generic type itself) fall back to key-value
// extraction. Rules apply in order; a later rule may overwrite an earlier
// capture for the same field name.
var rulesByType = map[model.DocumentType][]fieldRule{
	model.TypeInvoice: {
		{"invoice_number", regexp.MustCompile(`(?i)invoice\s+number:\s*([^:\n]+)`)},
		{"total_amount", regexp.MustCompile(`(?i)total\s+amount:\s*\$?(\d+(?:\.\d+)?)`)},
	},
	model.TypePurchaseOrder: {
		{"supplier", regexp.MustCompile(`(?i)supplier:\s*([^:\n]+)`)},
		{"order_number", regexp.MustCompile(`(?i)order\s+number:\s*([^:\n]+)`)},
		{"order_number", regexp.MustCompile(`(?i)po\s+number:\s*([^:\n]+)`)},
	},
	model.TypeSalesContract: {
		{"product_description", regexp.MustCompile(`(?i)products?:\s*([^:\n]+)`)},
		{"product_description", regexp.MustCompile(`(?i)items?:\s*([^:\n]+)`)},
		{"product_description", regexp.MustCompile(`(?i)description:\s*([^:\n]+)`)},
		{"quantity", regexp.MustCompile(`(?i)quantity:\s*(\d+(?:\.\d+)?)`)},
		{"unit_price", regexp.MustCompile(`(?i)price:\s*\$?(\d+(?:\.\d+)?)`)},
		{"delivery_date", regexp.MustCompile(`(?i)delivery\s+date:\s*([^:\n]+)`)},
		{"delivery_date", regexp.MustCompile(`(?i)due\s+date:\s*([^:\n]+)`)},
		{"delivery_date", regexp.MustCompile(`(?i)date:\s*([^:\n]+)`)},
		{"payment_terms", regexp.MustCompile(`(?i)payment\s+terms?:\s*([^:\n]+)`)},
	},
	model.TypeSpreadsheet: {
		{"total", regexp.MustCompile(`(?i)total[:\s]\s*\$?([\d,]+\.?\d*)`)},
		{"invoice", regexp.MustCompile(`(?i)invoice[:\s]\s*#?([^\s\n]+)`)},
		{"order", regexp.MustCompile(`(?i)order[:\s]\s*#?([^\s\n]+)`)},
		{"date", regexp.MustCompile(`(?i)date[:\s]\s*([^\s\n]+)`)},
		{"customer", regexp.MustCompile(`(?i)customer[:\s]\s*([^\s\n]+)`)},
		{"supplier", regexp.MustCompile(`(?i)supplier[:\s]\s*([^\s\n]+)`)},
	},
}

// importantFields carry extra weight in the batch confidence score.
var importantFields = []string{"product_description", "quantity", "unit_price", "total_amount"}
