package extract

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Package extract converts stored document bytes into plain text. Tabular
// formats additionally carry a machine-readable JSON summary appended under
// StructuredDataMarker, which the field extractor consumes downstream.

// StructuredDataMarker separates the human-readable linearization of a
// spreadsheet from the JSON summary appended after it.
const StructuredDataMarker = "--- Structured Data ---"

var (
	// ErrUnsupportedFormat is returned when the file extension is outside the
	// supported set. No partial text is returned.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtractionFailed wraps parser failures (corrupt or unreadable
	// content) together with the original cause message.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Extract converts file content into plain text, dispatching on the file
// extension (case-insensitive). Supported: .pdf, .docx, .txt, .xlsx, .xls,
// .csv. Anything else, including legacy .doc, fails with ErrUnsupportedFormat.
func Extract(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	case ".txt":
		return string(data), nil
	case ".xlsx", ".xls":
		return extractExcel(data)
	case ".csv":
		return extractCSV(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func extractionErr(stage string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrExtractionFailed, stage, cause)
}
