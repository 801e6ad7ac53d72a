package fields

import (
	"strings"

	"tradedocs/internal/extract"
	"tradedocs/internal/model"
	"tradedocs/internal/structure"
)

// Package fields pulls named business fields out of extracted document text.
// Text carrying the structured-data marker takes the structured path no
// matter the declared type; everything else dispatches on document type with
// a generic key-value fallback.

// Extract returns the named fields found in text for the given document type.
// Unmatched rules produce no field.
func Extract(text string, docType model.DocumentType) map[string]string {
	if strings.Contains(text, extract.StructuredDataMarker) {
		if data, ok := fromStructuredText(text); ok {
			return data
		}
		// Malformed structured block: recover via the regex path.
	}

	rules, ok := rulesByType[docType]
	if !ok {
		return extractGeneric(text)
	}

	data := make(map[string]string)
	for _, r := range rules {
		if m := r.pattern.FindStringSubmatch(text); m != nil {
			data[r.name] = strings.TrimSpace(m[1])
		}
	}
	return data
}

// extractGeneric falls back to the structure analyzer's key-value pairs with
// lower-cased keys.
func extractGeneric(text string) map[string]string {
	data := make(map[string]string)
	for _, kv := range structure.ExtractKeyValuePairs(text) {
		data[strings.ToLower(kv.Key)] = kv.Value
	}
	return data
}

// Confidence scores a whole extraction batch: important fields count 0.3
// each, every field counts 0.1, capped at 1. No fields means 0.
func Confidence(data map[string]string) float64 {
	if len(data) == 0 {
		return 0
	}
	important := 0
	for _, name := range importantFields {
		if v, ok := data[name]; ok && v != "" {
			important++
		}
	}
	score := float64(important)*0.3 + float64(len(data))*0.1
	if score > 1.0 {
		return 1.0
	}
	return score
}
