package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// reSketchLine matches "<name> [:-] <length> x <width>" as read off a sketch.
var reSketchLine = regexp.MustCompile(`(?i)^([a-z][a-z0-9 '&/.#:-]*?)\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*['’]?\s*[x×]\s*(\d+(?:\.\d+)?)`)

// OCRExtractor reads free text recognized from photographed sketches.
type OCRExtractor struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func NewOCRExtractor(table *heuristics.Table, logger *slog.Logger) *OCRExtractor {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRExtractor{table: table, logger: logger}
}

func (e *OCRExtractor) Extract(raw string) ([]entity.RawRoom, error) {
	lines := splitLines(raw)
	rooms := make([]entity.RawRoom, 0, len(lines))
	floor := ""
	tabular := 0

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		first := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
		if name, ok := floorName(first); ok {
			floor = name
			continue
		}
		if room, ok := e.parseSketchLine(line, floor); ok {
			rooms = append(rooms, room)
			continue
		}
		// short CSV exports are sniffed as OCR text
		if room, ok := parseTableRow(e.table, line, floor, constants.ConfidenceOCRTabular); ok {
			rooms = append(rooms, room)
			tabular++
		}
	}

	e.logger.Debug("extract.ocr.done", "lines", len(lines), "rooms", len(rooms), "tabular_rows", tabular)
	if len(rooms) == 0 {
		e.logger.Warn("extract.ocr.empty", "lines", len(lines))
		return FallbackRooms(constants.FormatImageOCR, e.table), common.ErrExtractionEmpty
	}
	return rooms, nil
}

func (e *OCRExtractor) parseSketchLine(line, floor string) (entity.RawRoom, bool) {
	m := reSketchLine.FindStringSubmatch(line)
	if m == nil {
		return entity.RawRoom{}, false
	}
	length, err1 := strconv.ParseFloat(m[2], 64)
	width, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return entity.RawRoom{}, false
	}
	return entity.RawRoom{
		Floor: floorOrDefault(floor),
		Name:  cleanRoomName(m[1]),
		Dimensions: entity.RawDimensions{
			Length: length,
			Width:  width,
			Height: e.table.DefaultHeight,
			Area:   entity.Float(round(length*width, 2)),
		},
		Openings:         []entity.Opening{},
		SourceConfidence: constants.ConfidenceOCR,
	}, true
}
