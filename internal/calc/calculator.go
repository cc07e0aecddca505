// Package calc turns room dimensions and openings into final area and
// perimeter measurements.
package calc

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// WarnNegativeWallArea is recorded when openings exceed the wall area. The
// value is reported as computed, not clamped.
const WarnNegativeWallArea = "wall area is negative after opening deductions"

type Calculator struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func New(table *heuristics.Table, logger *slog.Logger) *Calculator {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{table: table, logger: logger}
}

// Calculate never fails: invalid input yields the fallback room under the
// original name, flagged in its provenance.
func (c *Calculator) Calculate(room entity.RawRoom) entity.CalculatedRoom {
	out, err := c.CalculateStrict(room)
	if err != nil {
		c.logger.Warn("calc.fallback", "room", room.Name, "error", err)
	}
	return out
}

// CalculateStrict is Calculate, but also returns common.ErrRoomCalculation
// (wrapped) when the fallback room was used.
func (c *Calculator) CalculateStrict(room entity.RawRoom) (out entity.CalculatedRoom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", common.ErrRoomCalculation, r)
			out = FallbackRoom(room.Name, err.Error())
		}
	}()

	if vErr := validate(room); vErr != nil {
		err = fmt.Errorf("%w: %v", common.ErrRoomCalculation, vErr)
		return FallbackRoom(room.Name, err.Error()), err
	}
	return c.calculate(room), nil
}

func (c *Calculator) calculate(room entity.RawRoom) entity.CalculatedRoom {
	d := room.Dimensions

	height := d.Height
	if height == 0 {
		height = c.table.DefaultHeight
	}

	floorArea := d.Length * d.Width
	switch {
	case d.Area != nil:
		floorArea = *d.Area
	case d.CeilingArea != nil:
		floorArea = *d.CeilingArea
	}
	ceilingArea := floorArea
	if d.CeilingArea != nil {
		ceilingArea = *d.CeilingArea
	}

	perimeter := 2 * (d.Length + d.Width)
	if d.Perimeter != nil {
		perimeter = *d.Perimeter
	}
	wallArea := perimeter * height
	if d.WallArea != nil {
		wallArea = *d.WallArea
	}

	deducted := 0.0
	sizes := make([]entity.OpeningSize, 0, len(room.Openings))
	for _, op := range room.Openings {
		kind := string(op.Type)
		def := c.table.OpeningDefault(kind)
		w, h := op.Width, op.Height
		if w <= 0 {
			w = def.Width
		}
		if h <= 0 {
			h = def.Height
		}

		var size string
		switch op.Type {
		case constants.OpeningOpenWall:
			// an open wall removes the full wall section, floor to ceiling
			deducted += w * height
			perimeter -= w
			size = feet(w) + " wide opening"
		case constants.OpeningWindow:
			deducted += w * h
			size = feet(w) + " X " + feet(h) + " window"
		default:
			deducted += w * h
			size = feet(w) + " X " + feet(h)
		}
		sizes = append(sizes, entity.OpeningSize{
			Type:       kind,
			Size:       size,
			OpensInto:  op.OpensInto,
			IsExternal: op.IsExternal,
			IsInternal: op.IsInternal,
		})
	}
	wallArea -= deducted
	perimeter = math.Max(perimeter, 0)

	combined := wallArea + ceilingArea
	if d.WallsAndCeiling != nil {
		combined = *d.WallsAndCeiling - deducted
	}

	prov := &entity.Provenance{Confidence: room.SourceConfidence, Fallback: room.Fallback}
	if round2(wallArea) < 0 {
		prov.Warnings = append(prov.Warnings, WarnNegativeWallArea)
		c.logger.Warn("calc.negative_wall_area", "room", room.Name, "wall_area", round2(wallArea))
	}

	p := round2(perimeter)
	return entity.CalculatedRoom{
		Name: room.Name,
		Measurements: entity.Measurements{
			Height:                  round2(height),
			HeightLabel:             d.HeightLabel,
			WallAreaSqft:            round2(wallArea),
			CeilingAreaSqft:         round2(ceilingArea),
			FloorAreaSqft:           round2(floorArea),
			WallsAndCeilingAreaSqft: round2(combined),
			FlooringAreaSy:          round2(floorArea / 9),
			CeilingPerimeterLf:      p,
			FloorPerimeterLf:        p,
			Openings:                sizes,
		},
		Provenance: prov,
	}
}

func validate(room entity.RawRoom) error {
	d := room.Dimensions
	v := common.NewValidator()
	v.Field("length", d.Length, common.Finite, common.NonNegative).
		Field("width", d.Width, common.Finite, common.NonNegative).
		Field("height", d.Height, common.Finite, common.NonNegative).
		Field("area", d.Area, common.Finite, common.NonNegative).
		Field("perimeter", d.Perimeter, common.Finite, common.NonNegative).
		Field("wall_area", d.WallArea, common.Finite, common.NonNegative).
		Field("ceiling_area", d.CeilingArea, common.Finite, common.NonNegative).
		Field("walls_and_ceiling", d.WallsAndCeiling, common.Finite, common.NonNegative)
	for i, op := range room.Openings {
		v.Field(fmt.Sprintf("openings[%d].width", i), op.Width, common.Finite, common.NonNegative).
			Field(fmt.Sprintf("openings[%d].height", i), op.Height, common.Finite, common.NonNegative)
	}
	return v.Error()
}

// FallbackRoom is the canned record used when a room cannot be calculated.
func FallbackRoom(name, reason string) entity.CalculatedRoom {
	prov := &entity.Provenance{Confidence: constants.ConfidenceFallback, Fallback: true}
	if reason != "" {
		prov.Warnings = []string{reason}
	}
	return entity.CalculatedRoom{
		Name: name,
		Measurements: entity.Measurements{
			Height:                  8.0,
			WallAreaSqft:            320.0,
			CeilingAreaSqft:         100.0,
			FloorAreaSqft:           100.0,
			WallsAndCeilingAreaSqft: 420.0,
			FlooringAreaSy:          11.11,
			CeilingPerimeterLf:      40.0,
			FloorPerimeterLf:        40.0,
			Openings:                []entity.OpeningSize{},
		},
		Provenance: prov,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// feet prints a length with at least one decimal: 3 -> 3.0', 6.667 -> 6.67'.
func feet(v float64) string {
	s := strconv.FormatFloat(round2(v), 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + "'"
}
