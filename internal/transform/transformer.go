// Package transform groups calculated rooms into ordered floor locations.
package transform

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/calc"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
	"github.com/joseph-ayodele/room-measurements/internal/openings"
)

type Transformer struct {
	table     *heuristics.Table
	estimator *openings.Estimator
	calc      *calc.Calculator
	logger    *slog.Logger
}

func New(table *heuristics.Table, logger *slog.Logger) *Transformer {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{
		table:     table,
		estimator: openings.New(table, logger),
		calc:      calc.New(table, logger),
		logger:    logger,
	}
}

// Transform estimates missing openings, calculates every room and returns
// locations ordered basement first. Empty input yields FallbackLocations with
// common.ErrNoRooms. A non-nil error with locations means some rooms used the
// calculator's fallback record.
func (t *Transformer) Transform(rooms []entity.RawRoom) ([]entity.Location, error) {
	if len(rooms) == 0 {
		t.logger.Warn("transform.empty")
		return FallbackLocations(), common.ErrNoRooms
	}

	var order []string
	byFloor := make(map[string][]entity.RawRoom)
	for _, r := range rooms {
		r.Floor = floorOrDefault(r.Floor)
		if _, ok := byFloor[r.Floor]; !ok {
			order = append(order, r.Floor)
		}
		byFloor[r.Floor] = append(byFloor[r.Floor], r)
	}

	var calcErrs []error
	locations := make([]entity.Location, 0, len(order))
	for _, floor := range order {
		group := byFloor[floor]
		loc := entity.Location{Location: floor, Rooms: make([]entity.CalculatedRoom, 0, len(group))}
		for _, r := range group {
			estimated := false
			if len(r.Openings) == 0 {
				r.Openings = t.estimator.Estimate(r, group)
				estimated = len(r.Openings) > 0
			}
			cr, err := t.calc.CalculateStrict(r)
			if err != nil {
				calcErrs = append(calcErrs, fmt.Errorf("%s/%s: %w", floor, r.Name, err))
				t.logger.Warn("transform.room_fallback", "floor", floor, "room", r.Name, "error", err)
			}
			if estimated && cr.Provenance != nil && !cr.Provenance.Fallback {
				cr.Provenance.EstimatedOpenings = true
			}
			loc.Rooms = append(loc.Rooms, cr)
		}
		locations = append(locations, loc)
	}

	sort.SliceStable(locations, func(i, j int) bool {
		return t.Rank(locations[i].Location) < t.Rank(locations[j].Location)
	})

	t.logger.Debug("transform.done", "locations", len(locations), "rooms", len(rooms), "calc_fallbacks", len(calcErrs))
	return locations, errors.Join(calcErrs...)
}

// Rank orders floors: basement/lower 0, ground/1st 1, 2nd 2, 3rd 3, anything else last.
func (t *Transformer) Rank(floor string) int {
	lower := strings.ToLower(floor)
	for _, fr := range t.table.FloorRanks {
		for _, m := range fr.Match {
			if strings.Contains(lower, strings.ToLower(m)) {
				return fr.Rank
			}
		}
	}
	return t.table.DefaultFloorRank
}

// FallbackLocations is the canned structure returned when nothing could be
// extracted or the pipeline failed outright.
func FallbackLocations() []entity.Location {
	return []entity.Location{{
		Location: constants.DefaultFloor,
		Rooms: []entity.CalculatedRoom{{
			Name: "Living Room",
			Measurements: entity.Measurements{
				Height:                  9.0,
				WallAreaSqft:            426.73,
				CeilingAreaSqft:         199.32,
				FloorAreaSqft:           199.32,
				WallsAndCeilingAreaSqft: 626.05,
				FlooringAreaSy:          22.15,
				CeilingPerimeterLf:      43.48,
				FloorPerimeterLf:        43.48,
				Openings: []entity.OpeningSize{{
					Type:       string(constants.OpeningDoor),
					Size:       `3' X 6'8"`,
					IsInternal: true,
				}},
			},
			Provenance: &entity.Provenance{Confidence: constants.ConfidenceFallback, Fallback: true},
		}},
	}}
}

func floorOrDefault(floor string) string {
	if strings.TrimSpace(floor) == "" {
		return constants.DefaultFloor
	}
	return floor
}
