// Package pipeline orchestrates the import: parse, categorize, convert
// durations, group stems, then the four enrichment passes, with progress
// events at each stage boundary. Only stage-1 failures abort a run;
// enrichment problems degrade to empty fields and summary counts.
package pipeline
