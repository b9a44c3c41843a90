// Package projectxml parses an exported editing-project container (a
// gzip-compressed XML document) into the raw clip list the import pipeline
// consumes.
//
// The container defines alias records (SubClip objects referencing Clip
// objects, Clip objects carrying display names) that may appear after the
// timeline placements that use them, so the parser runs in two phases: a
// single forward pass buffers placements and builds the alias graph, then
// resolution and per-clip tick aggregation happen over the buffered list.
// There is no seeking.
//
// Individual malformed tags are recoverable; only an unreadable file or a
// total decompression/parse failure is fatal.
package projectxml
