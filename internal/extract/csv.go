package extract

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// CSVExtractor reads spreadsheet-style exports: floor lines followed by
// "name,area[,LxW[xH]]" rows.
type CSVExtractor struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func NewCSVExtractor(table *heuristics.Table, logger *slog.Logger) *CSVExtractor {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExtractor{table: table, logger: logger}
}

func (e *CSVExtractor) Extract(raw string) ([]entity.RawRoom, error) {
	lines := splitLines(raw)
	rooms := make([]entity.RawRoom, 0, len(lines))
	floor := ""

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
		room, ok := parseTableRow(e.table, line, floor, constants.ConfidenceCSV)
		if !ok {
			continue
		}
		rooms = append(rooms, room)
	}

	e.logger.Debug("extract.csv.done", "lines", len(lines), "rooms", len(rooms))
	if len(rooms) == 0 {
		e.logger.Warn("extract.csv.empty", "lines", len(lines))
		return FallbackRooms(constants.FormatCSVTable, e.table), common.ErrExtractionEmpty
	}
	return rooms, nil
}

// parseTableRow parses one comma-separated room row. It is shared with the OCR
// extractor, which sees short CSV exports.
func parseTableRow(t *heuristics.Table, line, floor string, confidence float64) (entity.RawRoom, bool) {
	if !strings.Contains(line, ",") {
		return entity.RawRoom{}, false
	}
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" || isHeader(t, parts[0]) {
		return entity.RawRoom{}, false
	}

	area := parseArea(parts[1])
	var length, width, height float64
	for _, p := range parts[2:] {
		lower := strings.ToLower(p)
		if !strings.Contains(lower, "x") && !strings.Contains(p, "×") {
			continue
		}
		nums := reNumber.FindAllString(p, -1)
		if len(nums) < 2 {
			continue
		}
		length, _ = strconv.ParseFloat(nums[0], 64)
		width, _ = strconv.ParseFloat(nums[1], 64)
		if len(nums) >= 3 {
			height, _ = strconv.ParseFloat(nums[2], 64)
		}
		break
	}

	switch {
	case area > 0 && (length <= 0 || width <= 0):
		width = math.Sqrt(area / t.AspectRatio)
		length = area / width
	case area <= 0 && length > 0 && width > 0:
		area = length * width
	}
	if length <= 0 || width <= 0 {
		length, width = t.DefaultSide, t.DefaultSide
		area = length * width
	}
	if height <= 0 {
		height = t.DefaultHeight
	}

	return entity.RawRoom{
		Floor: floorOrDefault(floor),
		Name:  cleanRoomName(parts[0]),
		Dimensions: entity.RawDimensions{
			Length: round(length, 1),
			Width:  round(width, 1),
			Height: round(height, 1),
			Area:   entity.Float(round(area, 2)),
		},
		Openings:         []entity.Opening{},
		SourceConfidence: confidence,
	}, true
}

func isHeader(t *heuristics.Table, field string) bool {
	upper := strings.ToUpper(field)
	for _, h := range t.HeaderBlocklist {
		if strings.Contains(upper, h) {
			return true
		}
	}
	return false
}

// parseArea keeps digits and the decimal point only ("120 sq ft" -> 120).
func parseArea(field string) float64 {
	var b strings.Builder
	for _, r := range field {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
