package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenSplitPattern matches non-alphanumeric character sequences for tokenization.
var tokenSplitPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey reduces text to a lowercase space-separated alphanumeric form
// suitable for grouping and comparison. Separator characters collapse into
// single spaces; everything else non-alphanumeric is dropped.
func NormalizeKey(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	lowered := strings.ToLower(input)
	lowered = strings.ReplaceAll(lowered, "&", "and")

	var b strings.Builder
	lastSpace := true
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits text into lowercase tokens, filtering tokens shorter than
// three characters.
func Tokenize(text string) []string {
	lowered := strings.ToLower(text)
	raw := tokenSplitPattern.Split(lowered, -1)
	terms := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if len(token) < 3 {
			continue
		}
		terms = append(terms, token)
	}
	return terms
}

// stopWords are tokens too common in track names to narrow a search.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "mix": {}, "edit": {}, "version": {},
	"instrumental": {}, "full": {}, "remix": {},
}

// SignificantWords returns the tokens of text worth querying a database with,
// capped at limit. Stop words and short tokens are removed.
func SignificantWords(text string, limit int) []string {
	tokens := Tokenize(text)
	words := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, skip := stopWords[token]; skip {
			continue
		}
		words = append(words, token)
		if limit > 0 && len(words) >= limit {
			break
		}
	}
	return words
}
