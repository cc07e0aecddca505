package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

type jsonDocument struct {
	Measurements []jsonMeasurement `json:"measurements"`
}

type jsonMeasurement struct {
	Elevation  string          `json:"elevation"`
	Room       string          `json:"room"`
	Dimensions *jsonDimensions `json:"dimensions"`
}

type jsonDimensions struct {
	Length    *float64 `json:"length"`
	Width     *float64 `json:"width"`
	Height    *float64 `json:"height"`
	Area      *float64 `json:"area"`
	Perimeter *float64 `json:"perimeter"`
}

// JSONExtractor maps already-structured measurement documents onto RawRooms.
type JSONExtractor struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func NewJSONExtractor(table *heuristics.Table, logger *slog.Logger) *JSONExtractor {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONExtractor{table: table, logger: logger}
}

func (e *JSONExtractor) Extract(raw string) ([]entity.RawRoom, error) {
	var doc jsonDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		e.logger.Warn("extract.json.decode_error", "error", err)
		return FallbackRooms(constants.FormatJSONData, e.table),
			fmt.Errorf("%w: decode json: %v", common.ErrExtractionEmpty, err)
	}

	rooms := make([]entity.RawRoom, 0, len(doc.Measurements))
	for _, m := range doc.Measurements {
		d := m.Dimensions
		if d == nil {
			d = &jsonDimensions{}
		}
		name := strings.TrimSpace(m.Room)
		if name == "" {
			name = "Room"
		}
		rooms = append(rooms, entity.RawRoom{
			Floor: floorOrDefault(m.Elevation),
			Name:  cleanRoomName(name),
			Dimensions: entity.RawDimensions{
				Length:    valueOr(d.Length, e.table.DefaultSide),
				Width:     valueOr(d.Width, e.table.DefaultSide),
				Height:    valueOr(d.Height, e.table.DefaultHeight),
				Area:      d.Area,
				Perimeter: d.Perimeter,
			},
			Openings:         []entity.Opening{},
			SourceConfidence: constants.ConfidenceJSON,
		})
	}

	e.logger.Debug("extract.json.done", "rooms", len(rooms))
	if len(rooms) == 0 {
		e.logger.Warn("extract.json.empty")
		return FallbackRooms(constants.FormatJSONData, e.table), common.ErrExtractionEmpty
	}
	return rooms, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
