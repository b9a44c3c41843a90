// Package textutil provides the text normalization and similarity helpers
// shared by the classifier, stem grouper, and learned-database matcher.
//
// Key entry points:
//   - NormalizeKey: lowercase alphanumeric form used as a grouping key
//   - Tokenize / SignificantWords: search-term extraction for database lookups
//   - TrigramJaccard: character-trigram set similarity in [0,1]
package textutil
