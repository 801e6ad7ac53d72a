package classify

import (
	"path/filepath"
	"strings"

	"tradedocs/internal/extract"
	"tradedocs/internal/model"
)

// Package classify assigns a business document type from textual signals or,
// before any text exists, from the file extension alone.

// rule pairs a document type with the substring probes that select it.
// Rules are evaluated in order; the first probe hit wins, so precedence is
// explicit and each rule can be tested on its own.
type rule struct {
	docType model.DocumentType
	probes  []string
}

var rules = []rule{
	{model.TypeSpreadsheet, []string{
		strings.ToLower(extract.StructuredDataMarker), "sheet:", "worksheet", "spreadsheet",
	}},
	{model.TypeInvoice, []string{
		"invoice", "factuur", "total amount", "btw", "tax",
	}},
	{model.TypePurchaseOrder, []string{
		"purchase order", "po number", "bestelbon", "order number",
	}},
	{model.TypeSalesContract, []string{
		"sales contract", "agreement", "contract", "terms and conditions",
	}},
}

// Classify returns the document type inferred from extracted text via
// case-insensitive substring probes, falling back to generic.
func Classify(text string) model.DocumentType {
	normalized := strings.ToLower(text)
	for _, r := range rules {
		for _, probe := range r.probes {
			if strings.Contains(normalized, probe) {
				return r.docType
			}
		}
	}
	return model.TypeGeneric
}

// FromExtension guesses a default type from the filename alone. It only
// pre-populates the type before extraction runs and is superseded by
// Classify once text is available.
func FromExtension(filename string) model.DocumentType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return model.TypeInvoice
	case ".docx", ".doc":
		return model.TypeSalesContract
	case ".xlsx", ".xls", ".csv":
		return model.TypeSpreadsheet
	default:
		return model.TypeGeneric
	}
}
