package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
)

func raw(floor, name string, l, w float64) entity.RawRoom {
	return entity.RawRoom{
		Floor:            floor,
		Name:             name,
		Dimensions:       entity.RawDimensions{Length: l, Width: w, Height: 8, Area: entity.Float(l * w)},
		SourceConfidence: 0.8,
	}
}

func TestTransformGroupsAndOrders(t *testing.T) {
	in := []entity.RawRoom{
		raw("2nd Floor", "Bedroom", 12, 11),
		raw("Attic Level", "Loft", 20, 10),
		raw("1st Floor", "Kitchen", 10, 12),
		raw("", "Living Room", 15, 20),
		raw("Basement", "Utility", 8, 9),
		raw("2nd Floor", "Bathroom", 8, 7),
	}
	locs, err := New(nil, nil).Transform(in)
	if err != nil {
		t.Fatalf("Transform() error = %v", err)
	}
	wantFloors := []string{"Basement", "1st Floor", "2nd Floor", "Attic Level"}
	if len(locs) != len(wantFloors) {
		t.Fatalf("Transform() returned %d locations, want %d", len(locs), len(wantFloors))
	}
	for i, f := range wantFloors {
		if locs[i].Location != f {
			t.Errorf("locs[%d] = %q, want %q", i, locs[i].Location, f)
		}
	}
	first := locs[1]
	if len(first.Rooms) != 2 || first.Rooms[0].Name != "Kitchen" || first.Rooms[1].Name != "Living Room" {
		t.Errorf("1st Floor rooms = %+v", first.Rooms)
	}
	// kitchen and living room share a floor: the kitchen opens onto it
	if ops := first.Rooms[0].Measurements.Openings; len(ops) == 0 || ops[0].Type != "open_wall" {
		t.Errorf("kitchen openings = %+v, want open_wall first", ops)
	}
	if p := first.Rooms[0].Provenance; p == nil || !p.EstimatedOpenings {
		t.Errorf("kitchen provenance = %+v, want EstimatedOpenings", p)
	}
	second := locs[2]
	if len(second.Rooms) != 2 || second.Rooms[0].Name != "Bedroom" || second.Rooms[1].Name != "Bathroom" {
		t.Errorf("2nd Floor rooms = %+v", second.Rooms)
	}
}

func TestTransformKeepsExtractedOpenings(t *testing.T) {
	r := raw("1st Floor", "Living Room", 15, 20)
	r.Openings = []entity.Opening{{Type: constants.OpeningWindow, Width: 5, Height: 4, IsExternal: true}}
	locs, err := New(nil, nil).Transform([]entity.RawRoom{r})
	if err != nil {
		t.Fatal(err)
	}
	room := locs[0].Rooms[0]
	if len(room.Measurements.Openings) != 1 || room.Measurements.Openings[0].Size != "5.0' X 4.0' window" {
		t.Errorf("Openings = %+v", room.Measurements.Openings)
	}
	if room.Provenance.EstimatedOpenings {
		t.Errorf("EstimatedOpenings should be false when openings were extracted")
	}
}

func TestTransformEmpty(t *testing.T) {
	locs, err := New(nil, nil).Transform(nil)
	if !errors.Is(err, common.ErrNoRooms) {
		t.Errorf("Transform(nil) error = %v, want ErrNoRooms", err)
	}
	if len(locs) != 1 || len(locs[0].Rooms) != 1 || locs[0].Rooms[0].Name != "Living Room" {
		t.Errorf("Transform(nil) = %+v, want canned structure", locs)
	}
}

func TestTransformReportsCalcFallback(t *testing.T) {
	bad := raw("1st Floor", "Den", 10, 10)
	bad.Dimensions.Length = math.NaN()
	locs, err := New(nil, nil).Transform([]entity.RawRoom{raw("1st Floor", "Kitchen", 10, 12), bad})
	if !errors.Is(err, common.ErrRoomCalculation) {
		t.Errorf("Transform() error = %v, want ErrRoomCalculation", err)
	}
	if entity.RoomCount(locs) != 2 {
		t.Fatalf("Transform() rooms = %d, want 2", entity.RoomCount(locs))
	}
	den := locs[0].Rooms[1]
	if den.Name != "Den" || !den.Provenance.Fallback || den.Measurements.WallAreaSqft != 320 {
		t.Errorf("den = %+v", den)
	}
}

func TestFallbackLocationsInvariants(t *testing.T) {
	locs := FallbackLocations()
	if len(locs) != 1 || locs[0].Location != "1st Floor" {
		t.Fatalf("FallbackLocations() = %+v", locs)
	}
	m := locs[0].Rooms[0].Measurements
	if m.FloorPerimeterLf != m.CeilingPerimeterLf {
		t.Errorf("perimeters differ: %v vs %v", m.FloorPerimeterLf, m.CeilingPerimeterLf)
	}
	if math.Abs(m.WallAreaSqft+m.CeilingAreaSqft-m.WallsAndCeilingAreaSqft) > 0.005 {
		t.Errorf("walls+ceiling inconsistent: %+v", m)
	}
	if math.Abs(m.FloorAreaSqft/9-m.FlooringAreaSy) > 0.005 {
		t.Errorf("flooring sy inconsistent: %+v", m)
	}
	// each call returns an independent copy
	locs[0].Rooms[0].Name = "changed"
	if FallbackLocations()[0].Rooms[0].Name != "Living Room" {
		t.Errorf("FallbackLocations() shares state between calls")
	}
}

func TestRank(t *testing.T) {
	tr := New(nil, nil)
	tests := map[string]int{
		"Basement":     0,
		"Lower Level":  0,
		"Ground Floor": 1,
		"1st Floor":    1,
		"2nd Floor":    2,
		"3rd Floor":    3,
		"Main Level":   10,
		"Attic":        10,
	}
	for floor, want := range tests {
		if got := tr.Rank(floor); got != want {
			t.Errorf("Rank(%q) = %d, want %d", floor, got, want)
		}
	}
}
