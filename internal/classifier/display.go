package classifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// DisplayName converts a raw filename fragment into a human-readable track
// title: separators become spaces and fully-lowercase words are title-cased.
// Words that already carry capitals (catalog fragments, acronyms, CamelCase)
// are preserved as written.
func DisplayName(fragment string) string {
	fragment = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(fragment)
	words := strings.Fields(fragment)
	for i, word := range words {
		if word == strings.ToLower(word) {
			words[i] = titleCaser.String(word)
		}
	}
	return strings.Join(words, " ")
}

func normalizeCatalog(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(code)
}
