package constants

// Format is the detected shape of a raw measurement text.
type Format string

// Stable values (they appear in logs and in pipeline results).
const (
	FormatCSVTable Format = "csv_table"
	FormatPDFTable Format = "pdf_table"
	FormatImageOCR Format = "image_ocr"
	FormatJSONData Format = "json_data"
)

// DefaultFloor is used when no floor or elevation line precedes a room.
const DefaultFloor = "1st Floor"

// SourceConfidence values per extractor.
const (
	ConfidenceJSON        = 0.9
	ConfidencePDF         = 0.9
	ConfidenceCSV         = 0.8
	ConfidenceOCR         = 0.7
	ConfidenceOCRTabular  = 0.6
	ConfidenceFallback    = 0.5
	ConfidenceMinReliable = 0.6
)
