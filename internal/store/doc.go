// Package store persists the learning state shared across import runs: the
// pattern rules maintained by the pattern engine, the corrections that seed
// them, and the fuzzy-matchable track database. Writes are idempotent upserts
// keyed by natural keys so concurrent importers converge on one row.
package store
