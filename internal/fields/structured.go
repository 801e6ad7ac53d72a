package fields

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"tradedocs/internal/extract"
)

// fromStructuredText parses the JSON block after the structured-data marker
// and extracts fields from it. Returns ok=false when the block is malformed,
// in which case the caller falls back to pattern extraction.
func fromStructuredText(text string) (map[string]string, bool) {
	parts := strings.SplitN(text, extract.StructuredDataMarker, 2)
	if len(parts) != 2 {
		return nil, false
	}

	var sheets map[string]extract.SheetData
	if err := json.Unmarshal([]byte(strings.TrimSpace(parts[1])), &sheets); err != nil {
		return nil, false
	}
	return fromSheets(sheets), true
}

// fromSheets emits per-sheet headers, counts, high-signal column summaries
// and sample rows, all namespaced by sheet name.
func fromSheets(sheets map[string]extract.SheetData) map[string]string {
	data := make(map[string]string)

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sheet := sheets[name]

		data[name+"_headers"] = strings.Join(sheet.Headers, ", ")
		data[name+"_row_count"] = strconv.Itoa(sheet.Summary.TotalRows)
		data[name+"_column_count"] = strconv.Itoa(sheet.Summary.TotalColumns)

		for _, col := range sortedColumns(sheet.Summary.DataTypes) {
			info := sheet.Summary.DataTypes[strconv.Itoa(col)]
			header := columnHeader(sheet.Headers, col)
			base := name + "_" + normalizeHeader(header)

			switch info.Type {
			case "email":
				if info.Count > 0 {
					data[base] = strings.Join(info.Examples, ", ")
				}
			case "date":
				if info.Count > 0 {
					data[base+"_dates"] = strings.Join(info.Examples, ", ")
				}
			case "integer", "decimal":
				sum, count := columnTotal(sheet.Rows, col)
				if count > 0 {
					data[base+"_total"] = strconv.FormatFloat(sum, 'f', -1, 64)
					data[base+"_count"] = strconv.Itoa(count)
				}
			}
		}

		if len(sheet.Rows) > 0 {
			sample := sheet.Rows
			if len(sample) > 3 {
				sample = sample[:3]
			}
			if enc, err := json.Marshal(sample); err == nil {
				data[name+"_sample_data"] = string(enc)
			}
		}
	}
	return data
}

func sortedColumns(types map[string]extract.ColumnInfo) []int {
	cols := make([]int, 0, len(types))
	for key := range types {
		if idx, err := strconv.Atoi(key); err == nil {
			cols = append(cols, idx)
		}
	}
	sort.Ints(cols)
	return cols
}

func columnHeader(headers []string, col int) string {
	if col < len(headers) && headers[col] != "" {
		return headers[col]
	}
	return "Column_" + strconv.Itoa(col+1)
}

func normalizeHeader(header string) string {
	return strings.ToLower(strings.Join(strings.Fields(header), "_"))
}

// columnTotal sums the parseable numeric values of one column.
func columnTotal(rows [][]string, col int) (float64, int) {
	var sum float64
	count := 0
	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64); err == nil {
			sum += v
			count++
		}
	}
	return sum, count
}
