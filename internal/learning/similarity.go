package learning

import "strings"

// tokenize splits text into lowercase alphanumeric runs, so "WIDGET-9"
// yields ["widget", "9"] and hyphen or slash variants of the same code
// still share tokens.
func tokenize(text string) []string {
	norm := strings.ToLower(text)
	tokens := make([]string, 0, 4)
	var b strings.Builder
	for _, r := range norm {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		tokens = append(tokens, b.String())
	}
	return tokens
}

// Similarity is the Jaccard index over token sets of the two strings.
// Returns a value in [0,1]; two empty strings score 0.
func Similarity(a, b string) float64 {
	setA := map[string]struct{}{}
	for _, t := range tokenize(a) {
		setA[t] = struct{}{}
	}
	setB := map[string]struct{}{}
	for _, t := range tokenize(b) {
		setB[t] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
