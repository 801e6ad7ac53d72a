package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// A .docx file is a zip archive; the document body lives in
// word/document.xml. Unqualified element names below match the WordprocessingML
// local names regardless of namespace.

type docxDocument struct {
	Body docxBody `xml:"body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"p"`
	Tables     []docxTable     `xml:"tbl"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"r"`
}

type docxRun struct {
	Texts []string `xml:"t"`
}

type docxTable struct {
	Rows []docxTableRow `xml:"tr"`
}

type docxTableRow struct {
	Cells []docxTableCell `xml:"tc"`
}

type docxTableCell struct {
	Paragraphs []docxParagraph `xml:"p"`
}

func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", extractionErr("open docx archive", err)
	}

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", extractionErr("open document.xml", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", extractionErr("read document.xml", err)
		}

		var doc docxDocument
		if err := xml.Unmarshal(content, &doc); err != nil {
			return "", extractionErr("parse document.xml", err)
		}

		var b strings.Builder
		for _, p := range doc.Body.Paragraphs {
			if t := paragraphText(p); t != "" {
				b.WriteString(t)
				b.WriteByte('\n')
			}
		}
		for _, tbl := range doc.Body.Tables {
			for _, row := range tbl.Rows {
				cells := make([]string, 0, len(row.Cells))
				for _, cell := range row.Cells {
					var ct []string
					for _, p := range cell.Paragraphs {
						if t := paragraphText(p); t != "" {
							ct = append(ct, t)
						}
					}
					cells = append(cells, strings.Join(ct, " "))
				}
				b.WriteString(strings.Join(cells, "\t"))
				b.WriteByte('\n')
			}
		}
		return b.String(), nil
	}

	return "", extractionErr("parse docx", errMissingDocumentXML)
}

var errMissingDocumentXML = errors.New("word/document.xml not found in archive")

func paragraphText(p docxParagraph) string {
	var b strings.Builder
	for _, r := range p.Runs {
		for _, t := range r.Texts {
			b.WriteString(t)
		}
	}
	return strings.TrimSpace(b.String())
}
