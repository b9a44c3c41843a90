// Package classifier recognizes vendor and library naming conventions in
// audio clip filenames and extracts track metadata with a confidence score.
//
// Recognition is a prioritized first-match battery: each known convention is
// a predicate+extractor entry in an ordered table, tried before the generic
// fallback. Pattern order matters; do not sort or dedupe the table.
package classifier
