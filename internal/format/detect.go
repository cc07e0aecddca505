// Package format sniffs the shape of a raw measurement text.
package format

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
)

var (
	tableMarkers = []string{"ROOM ATTRIBUTES", "PLAN ATTRIBUTES", "GROUND SURFACE", "VOLUME", "ROOM SCHEDULE"}
	pdfMarkers   = []string{"AREA CALCULATIONS", "ROOM SCHEDULE", "TAKEOFF"}
)

// shortTextLines: texts with fewer lines than this are treated as OCR output.
const shortTextLines = 10

// Detect classifies raw text. It never fails; unrecognized input is csv_table.
func Detect(raw, hint string) constants.Format {
	f, _ := DetectStrict(raw, hint)
	return f
}

// DetectStrict is Detect, but reports common.ErrFormatDetectionAmbiguous when no
// rule matched and the csv_table default was used.
func DetectStrict(raw, hint string) (constants.Format, error) {
	upper := strings.ToUpper(raw)
	hint = strings.ToLower(strings.TrimSpace(hint))

	if containsAny(upper, tableMarkers) {
		return constants.FormatCSVTable, nil
	}
	if hint == constants.FileTypePDF || containsAny(upper, pdfMarkers) {
		return constants.FormatPDFTable, nil
	}
	if hint == constants.FileTypeImage || strings.Count(raw, "\n")+1 < shortTextLines {
		return constants.FormatImageOCR, nil
	}
	if json.Valid([]byte(raw)) {
		return constants.FormatJSONData, nil
	}
	return constants.FormatCSVTable, common.ErrFormatDetectionAmbiguous
}

// HintFromPath maps a file name to the file type hint Detect expects.
func HintFromPath(path string) string {
	return constants.MapExtToFileType(filepath.Ext(path))
}

// DetectFromPath detects using the hint derived from the file extension.
func DetectFromPath(path, raw string) constants.Format {
	return Detect(raw, HintFromPath(path))
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
