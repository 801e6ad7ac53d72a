package extract

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_Txt(t *testing.T) {
	text, err := Extract("note.txt", []byte("Invoice Number: INV-1\n"))

	assert.NoError(t, err)
	assert.Equal(t, "Invoice Number: INV-1\n", text)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	for _, name := range []string{"image.bmp", "legacy.doc", "noext"} {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(name, []byte("data"))
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestExtract_CaseInsensitiveExtension(t *testing.T) {
	text, err := Extract("NOTE.TXT", []byte("hello"))

	assert.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtract_CSV(t *testing.T) {
	csvData := []byte("name,amount\nWidget,10\nGadget,20\n")

	text, err := Extract("items.csv", csvData)
	require.NoError(t, err)

	t.Run("linearized text precedes the marker", func(t *testing.T) {
		assert.Contains(t, text, "name,amount")
		assert.Contains(t, text, "Widget,10")
		assert.Contains(t, text, StructuredDataMarker)
	})

	t.Run("structured summary", func(t *testing.T) {
		parts := strings.SplitN(text, StructuredDataMarker, 2)
		require.Len(t, parts, 2)

		var structured map[string]SheetData
		require.NoError(t, json.Unmarshal([]byte(parts[1]), &structured))

		sheet, ok := structured["Sheet1"]
		require.True(t, ok)
		assert.Equal(t, []string{"name", "amount"}, sheet.Headers)
		assert.Equal(t, 2, sheet.Summary.TotalRows)
		assert.Equal(t, 2, sheet.Summary.TotalColumns)
		assert.Equal(t, "text", sheet.Summary.DataTypes["0"].Type)
		assert.Equal(t, "integer", sheet.Summary.DataTypes["1"].Type)
		assert.Equal(t, []string{"10", "20"}, sheet.Summary.DataTypes["1"].Examples)
	})
}

func TestExtract_CSV_HeaderlessNumericRows(t *testing.T) {
	text, err := Extract("data.csv", []byte("1,2\n3,4\n"))
	require.NoError(t, err)

	parts := strings.SplitN(text, StructuredDataMarker, 2)
	require.Len(t, parts, 2)

	var structured map[string]SheetData
	require.NoError(t, json.Unmarshal([]byte(parts[1]), &structured))

	sheet := structured["Sheet1"]
	assert.Equal(t, []string{"Column_1", "Column_2"}, sheet.Headers)
	assert.Equal(t, 2, sheet.Summary.TotalRows)
}

func TestExtract_Docx(t *testing.T) {
	buildDocx := func(t *testing.T, documentXML string) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/document.xml")
		require.NoError(t, err)
		w.Write([]byte(documentXML))
		require.NoError(t, zw.Close())
		return buf.Bytes()
	}

	t.Run("paragraph text", func(t *testing.T) {
		doc := buildDocx(t, `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>Sales Contract</t></r></p>
    <p><r><t>Product Description: Blue Widget</t></r></p>
  </body>
</document>`)

		text, err := Extract("contract.docx", doc)

		assert.NoError(t, err)
		assert.Contains(t, text, "Sales Contract")
		assert.Contains(t, text, "Product Description: Blue Widget")
	})

	t.Run("missing document.xml", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, _ := zw.Create("word/other.xml")
		w.Write([]byte("<x/>"))
		zw.Close()

		_, err := Extract("contract.docx", buf.Bytes())

		assert.ErrorIs(t, err, ErrExtractionFailed)
	})

	t.Run("not a zip archive", func(t *testing.T) {
		_, err := Extract("contract.docx", []byte("plain bytes"))

		assert.ErrorIs(t, err, ErrExtractionFailed)
	})
}

func TestExtract_CorruptPDF(t *testing.T) {
	_, err := Extract("scan.pdf", []byte("not a pdf"))

	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestExtract_CorruptWorkbook(t *testing.T) {
	_, err := Extract("sheet.xlsx", []byte("not a workbook"))

	assert.ErrorIs(t, err, ErrExtractionFailed)
}

func TestDetectDataType(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"", "empty"},
		{"2024-01-15", "date"},
		{"15/01/2024", "date"},
		{"42", "integer"},
		{"19.99", "decimal"},
		{"ops@acme.example", "email"},
		{"+1 (555) 123-4567", "phone"},
		{"https://acme.example/docs", "url"},
		{"Blue Widget", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDataType(tt.value))
		})
	}
}

func TestIsDataRow(t *testing.T) {
	assert.True(t, isDataRow([]string{"1", "2", "3"}))
	assert.False(t, isDataRow([]string{"name", "amount"}))
	assert.False(t, isDataRow([]string{"name", "10"}))
	assert.False(t, isDataRow(nil))
}
