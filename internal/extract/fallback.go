package extract

import (
	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

// Fallback rows carry the sentinel dimensions so the deduplicator removes
// them and the transformer falls through to its canned structure.
func fallbackRoom(t *heuristics.Table, name string) entity.RawRoom {
	s := t.Sentinel
	return entity.RawRoom{
		Floor: constants.DefaultFloor,
		Name:  name,
		Dimensions: entity.RawDimensions{
			Length: s.Length,
			Width:  s.Width,
			Height: s.Height,
			Area:   entity.Float(s.Length * s.Width),
		},
		Openings:         []entity.Opening{},
		SourceConfidence: constants.ConfidenceFallback,
		Fallback:         true,
	}
}

// FallbackRooms returns the documented fallback set for a format.
func FallbackRooms(f constants.Format, t *heuristics.Table) []entity.RawRoom {
	if t == nil {
		t = heuristics.Default()
	}
	switch f {
	case constants.FormatCSVTable:
		return []entity.RawRoom{fallbackRoom(t, "Living Room"), fallbackRoom(t, "Kitchen")}
	case constants.FormatPDFTable:
		return []entity.RawRoom{fallbackRoom(t, "Living Room")}
	default:
		return []entity.RawRoom{fallbackRoom(t, "Room")}
	}
}
