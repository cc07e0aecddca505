package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
)

// AllowedExt checks if a file extension is one the measurement CLIs read.
func AllowedExt(ext string) bool {
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// FileTypeOf maps a path to the file type hint the pipeline expects.
func FileTypeOf(path string) string {
	return constants.MapExtToFileType(filepath.Ext(path))
}
