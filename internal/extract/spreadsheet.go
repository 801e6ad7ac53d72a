package extract

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetData is the machine-readable summary of one sheet, serialized into the
// JSON block after StructuredDataMarker.
type SheetData struct {
	Headers []string     `json:"headers"`
	Rows    [][]string   `json:"rows"`
	Summary SheetSummary `json:"summary"`
}

// SheetSummary aggregates a sheet. DataTypes is keyed by zero-based column
// index (as a string, for JSON stability).
type SheetSummary struct {
	TotalRows    int                   `json:"totalRows"`
	TotalColumns int                   `json:"totalColumns"`
	DataTypes    map[string]ColumnInfo `json:"dataTypes"`
}

// ColumnInfo records the inferred type of a column with up to three example values.
type ColumnInfo struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Examples []string `json:"examples"`
}

// csvSheetName is the implicit sheet name given to CSV input.
const csvSheetName = "Sheet1"

// extractExcel linearizes every sheet into a labeled CSV-like block and
// appends the structured-data JSON summary.
func extractExcel(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", extractionErr("open workbook", err)
	}
	defer f.Close()

	var b strings.Builder
	structured := make(map[string]SheetData)

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", extractionErr("read sheet "+name, err)
		}

		b.WriteString("Sheet: " + name + "\n")
		for _, row := range rows {
			b.WriteString(strings.Join(row, ","))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')

		if len(rows) > 0 {
			structured[name] = buildSheetData(rows)
		}
	}

	return appendStructuredData(b.String(), structured)
}

// extractCSV treats the whole file as one implicit sheet.
func extractCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", extractionErr("parse csv", err)
	}

	var b strings.Builder
	for _, rec := range records {
		b.WriteString(strings.Join(rec, ","))
		b.WriteByte('\n')
	}

	structured := make(map[string]SheetData)
	if len(records) > 0 {
		structured[csvSheetName] = buildSheetData(records)
	}
	return appendStructuredData(b.String(), structured)
}

func appendStructuredData(text string, structured map[string]SheetData) (string, error) {
	if len(structured) == 0 {
		return text, nil
	}
	enc, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return "", extractionErr("encode structured data", err)
	}
	return text + "\n" + StructuredDataMarker + "\n" + string(enc), nil
}

// buildSheetData summarizes raw rows. The first row is treated as a header
// unless it looks like data (70% or more of its cells parse as numeric), in
// which case generic Column_N headers are synthesized and every row counts as data.
func buildSheetData(rows [][]string) SheetData {
	sd := SheetData{
		Summary: SheetSummary{DataTypes: make(map[string]ColumnInfo)},
	}
	if len(rows) == 0 {
		return sd
	}

	if isDataRow(rows[0]) {
		sd.Headers = make([]string, len(rows[0]))
		for i := range sd.Headers {
			sd.Headers[i] = "Column_" + strconv.Itoa(i+1)
		}
		sd.Rows = rows
	} else {
		sd.Headers = rows[0]
		sd.Rows = rows[1:]
	}

	sd.Summary.TotalRows = len(sd.Rows)
	sd.Summary.TotalColumns = len(sd.Headers)

	for _, row := range sd.Rows {
		for col, cell := range row {
			key := strconv.Itoa(col)
			info, ok := sd.Summary.DataTypes[key]
			if !ok {
				info = ColumnInfo{Type: detectDataType(cell)}
			}
			info.Count++
			if len(info.Examples) < 3 {
				info.Examples = append(info.Examples, cell)
			}
			sd.Summary.DataTypes[key] = info
		}
	}
	return sd
}

// isDataRow reports whether more than 70% of the cells parse as numbers,
// which disqualifies the row from being a header.
func isDataRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	numeric := 0
	for _, cell := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			numeric++
		}
	}
	return float64(numeric)/float64(len(row)) > 0.7
}

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
		regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`),
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),
	}
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9()\-]{10,}$`)
	urlPattern   = regexp.MustCompile(`^https?://\S+$`)
)

// detectDataType classifies a single cell value.
func detectDataType(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return "empty"
	}
	for _, p := range datePatterns {
		if p.MatchString(v) {
			return "date"
		}
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		if f == float64(int64(f)) {
			return "integer"
		}
		return "decimal"
	}
	if emailPattern.MatchString(v) {
		return "email"
	}
	if phonePattern.MatchString(strings.ReplaceAll(v, " ", "")) {
		return "phone"
	}
	if urlPattern.MatchString(v) {
		return "url"
	}
	return "text"
}
