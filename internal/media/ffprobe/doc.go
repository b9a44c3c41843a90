// Package ffprobe shells out to ffprobe for media inspection and exposes the
// container and stream tags the enrichment chain reads.
package ffprobe
