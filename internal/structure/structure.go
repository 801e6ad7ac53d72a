package structure

import (
	"regexp"
	"strings"
)

// Package structure derives a lightweight structural summary from extracted
// document text: headers/footers, section boundaries, key-value pairs and
// table-like regions. The summary is informational and carries per-item
// heuristic confidences; it is serialized into a document content field
// rather than persisted on its own.

// Structure is the analysis result for one document's text.
type Structure struct {
	TotalLines    int        `json:"totalLines"`
	TotalWords    int        `json:"totalWords"`
	HasHeader     bool       `json:"hasHeader"`
	HasFooter     bool       `json:"hasFooter"`
	Sections      []Section  `json:"sections"`
	KeyValuePairs []KeyValue `json:"keyValuePairs"`
	Tables        []Table    `json:"tables"`
}

// Section groups the content lines that follow a detected section header.
type Section struct {
	Title     string   `json:"title"`
	StartLine int      `json:"startLine"`
	Content   []string `json:"content"`
}

// KeyValue is a single key-value match. Matches from different patterns are
// all retained, duplicates included.
type KeyValue struct {
	Key        string  `json:"key"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Table is a detected table-like region spanning the first to the last
// table-looking line.
type Table struct {
	StartLine  int      `json:"startLine"`
	EndLine    int      `json:"endLine"`
	Content    []string `json:"content"`
	Confidence float64  `json:"confidence"`
}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[\w\s]+$`),
		regexp.MustCompile(`^\d+\.\s+[\w\s]+$`),
		regexp.MustCompile(`^[\w\s]+:\s*$`),
	}
	footerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)page\s+\d+`),
		regexp.MustCompile(`(?i)confidential`),
		regexp.MustCompile(`(?i)copyright`),
		regexp.MustCompile(`\d{4}$`),
	}
	kvPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\w+):\s*([^:\n]+)`),
		regexp.MustCompile(`(\w+)\s*=\s*([^=\n]+)`),
		regexp.MustCompile(`(\w+)\s*-\s*([^-\n]+)`),
	}
	numberedHeader = regexp.MustCompile(`^\d+\.\s+`)
	capitalized    = regexp.MustCompile(`^[A-Z][a-z]+`)
	multiSpace     = regexp.MustCompile(`\s{2,}`)
)

// Analyze summarizes the structure of the given text.
func Analyze(text string) Structure {
	lines := nonEmptyLines(text)

	return Structure{
		TotalLines:    len(lines),
		TotalWords:    len(strings.Fields(text)),
		HasHeader:     detectHeader(lines),
		HasFooter:     detectFooter(lines),
		Sections:      identifySections(lines),
		KeyValuePairs: ExtractKeyValuePairs(text),
		Tables:        detectTables(text),
	}
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}

// detectHeader checks the first five lines for header-looking content.
func detectHeader(lines []string) bool {
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		for _, p := range headerPatterns {
			if p.MatchString(line) {
				return true
			}
		}
	}
	return false
}

// detectFooter checks the last five lines for footer-looking content.
func detectFooter(lines []string) bool {
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	for _, line := range lines {
		for _, p := range footerPatterns {
			if p.MatchString(line) {
				return true
			}
		}
	}
	return false
}

func identifySections(lines []string) []Section {
	var sections []Section
	var current *Section

	for i, line := range lines {
		if isSectionHeader(line) {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Title: line, StartLine: i}
		} else if current != nil {
			current.Content = append(current.Content, line)
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// isSectionHeader: short line without a period that is either all-uppercase,
// numbered, or starts with a capitalized word.
func isSectionHeader(line string) bool {
	return len(line) > 0 &&
		len(line) < 100 &&
		!strings.Contains(line, ".") &&
		(line == strings.ToUpper(line) ||
			numberedHeader.MatchString(line) ||
			capitalized.MatchString(line))
}

// ExtractKeyValuePairs runs three pattern passes (colon, equals, dash) over
// the full text. Every match is reported at confidence 0.8; no deduplication
// across patterns.
func ExtractKeyValuePairs(text string) []KeyValue {
	var pairs []KeyValue
	for _, p := range kvPatterns {
		for _, m := range p.FindAllStringSubmatch(text, -1) {
			pairs = append(pairs, KeyValue{
				Key:        strings.TrimSpace(m[1]),
				Value:      strings.TrimSpace(m[2]),
				Confidence: 0.8,
			})
		}
	}
	return pairs
}

// detectTables reports a single region spanning the first to last line that
// looks tabular (pipe, tab, or runs of 2+ spaces), when more than two such
// lines exist.
func detectTables(text string) []Table {
	lines := strings.Split(text, "\n")

	var tableLines []string
	first, last := -1, -1
	for i, line := range lines {
		if strings.Contains(line, "|") || strings.Contains(line, "\t") || multiSpace.MatchString(line) {
			tableLines = append(tableLines, line)
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if len(tableLines) <= 2 {
		return nil
	}
	return []Table{{
		StartLine:  first,
		EndLine:    last,
		Content:    tableLines,
		Confidence: 0.6,
	}}
}
