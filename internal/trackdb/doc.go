// Package trackdb matches clip names against the learned track database.
// Scoring is heuristic: exact cleaned-name hits win outright, catalog-code
// hits rank just below, and everything else falls back to trigram similarity.
package trackdb
