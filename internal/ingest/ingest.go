// Package ingest discovers measurement files on disk, either by walking a
// directory once or by watching it for new files.
package ingest

// FileResult is the per-file discovery outcome.
type FileResult struct {
	Path         string
	FileType     string // constants.FileType*
	HashHex      string // sha256 of the content
	Deduplicated bool   // same content as an earlier file in the scan
	Err          string
}

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned      uint32
	Matched      uint32
	Succeeded    uint32
	Deduplicated uint32
	Failed       uint32
}
