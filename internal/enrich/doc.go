// Package enrich runs the ordered metadata enrichment passes over grouped
// cues: file tag overlay, learned-track lookup, pattern auto-fill, and the
// optional remote classifier. Every pass is fill-if-empty; a later stage can
// never overwrite what an earlier one set.
package enrich
