package constants

import "strings"

// FileTypes holds the caller-facing file type hints accepted by the pipeline.
var FileTypes = []string{FileTypeCSV, FileTypePDF, FileTypeImage, FileTypeJSON}

const (
	FileTypeCSV   = "csv"
	FileTypePDF   = "pdf"
	FileTypeImage = "image"
	FileTypeJSON  = "json"
)

// AllowedExtensions holds the file extensions the CLIs pick up from a directory.
var AllowedExtensions = map[string]struct{}{
	"csv":  {},
	"txt":  {},
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"tif":  {},
	"tiff": {},
	"heic": {},
	"heif": {},
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFileType maps a file extension to a file type hint. Returns "" when unsupported.
func MapExtToFileType(ext string) string {
	switch NormalizeExt(ext) {
	case "csv", "txt":
		return FileTypeCSV
	case "pdf":
		return FileTypePDF
	case "jpg", "jpeg", "png", "tif", "tiff", "heic", "heif":
		return FileTypeImage
	case "json":
		return FileTypeJSON
	default:
		return ""
	}
}

// IsImageExt reports whether ext is one of the raster formats handed to OCR.
func IsImageExt(ext string) bool {
	return MapExtToFileType(ext) == FileTypeImage
}

// IsHEICExt reports whether ext needs converting before tesseract can read it.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}
