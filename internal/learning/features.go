package learning

import (
	"strings"
	"unicode"
)

// Features describes a product code or description for pattern training.
type Features struct {
	Length            int     `json:"length"`
	WordCount         int     `json:"word_count"`
	HasNumbers        bool    `json:"has_numbers"`
	HasSpecialChars   bool    `json:"has_special_chars"`
	FirstWord         string  `json:"first_word"`
	LastWord          string  `json:"last_word"`
	AlphanumericRatio float64 `json:"alphanumeric_ratio"`
}

// ExtractFeatures computes features over the lowercased, trimmed text.
// Empty input yields the zero Features value.
func ExtractFeatures(text string) Features {
	norm := strings.ToLower(strings.TrimSpace(text))
	if norm == "" {
		return Features{}
	}

	words := strings.Fields(norm)
	f := Features{
		Length:    len(norm),
		WordCount: len(words),
	}
	if len(words) > 0 {
		f.FirstWord = words[0]
		f.LastWord = words[len(words)-1]
	}

	alnum := 0
	for _, r := range norm {
		switch {
		case unicode.IsDigit(r):
			f.HasNumbers = true
			alnum++
		case unicode.IsLetter(r):
			alnum++
		case unicode.IsSpace(r):
		default:
			f.HasSpecialChars = true
		}
	}
	f.AlphanumericRatio = float64(alnum) / float64(len(norm))
	return f
}
