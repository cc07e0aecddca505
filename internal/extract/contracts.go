// Package extract turns raw measurement text into RawRoom candidates, one
// extractor per detected format.
package extract

import (
	"log/slog"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// Extractor parses raw text into room candidates. When nothing usable is
// found it returns its fallback set together with common.ErrExtractionEmpty,
// so callers always get a non-empty slice.
type Extractor interface {
	Extract(raw string) ([]entity.RawRoom, error)
}

// ForFormat returns the extractor for a detected format. Unknown formats use
// the CSV extractor.
func ForFormat(f constants.Format, table *heuristics.Table, logger *slog.Logger) Extractor {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	switch f {
	case constants.FormatPDFTable:
		return NewPDFExtractor(table, logger)
	case constants.FormatImageOCR:
		return NewOCRExtractor(table, logger)
	case constants.FormatJSONData:
		return NewJSONExtractor(table, logger)
	default:
		return NewCSVExtractor(table, logger)
	}
}
