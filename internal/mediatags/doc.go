// Package mediatags reads embedded metadata from resolved media files for
// the file-tag overlay stage of enrichment.
package mediatags
