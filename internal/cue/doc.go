// Package cue defines the domain models that flow through the import
// pipeline: raw timeline clips, classified and timed clips, grouped cues with
// attached stems, and the per-field enrichment provenance attached to the
// final cue list.
//
// The types form a strict progression (RawClip -> ClassifiedClip -> TimedClip
// -> Cue) and each stage only adds information; nothing downstream mutates
// what an earlier stage produced.
package cue
