package openings

import (
	"fmt"
	"testing"

	"github.com/joseph-ayodele/room-measurements/internal/entity"
)

func raw(floor, name string, area float64) entity.RawRoom {
	return entity.RawRoom{
		Floor:      floor,
		Name:       name,
		Dimensions: entity.RawDimensions{Length: 1, Width: area, Height: 8, Area: entity.Float(area)},
	}
}

// describe renders openings as "door 3x6.8" for compact comparisons.
func describe(ops []entity.Opening) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = fmt.Sprintf("%s %gx%g", o.Type, o.Width, o.Height)
	}
	return out
}

func TestEstimate(t *testing.T) {
	e := New(nil, nil)
	tests := []struct {
		name     string
		room     entity.RawRoom
		siblings []entity.RawRoom
		want     []string
	}{
		{"pantry has nothing", raw("1st Floor", "Pantry", 30), nil, []string{}},
		{"kitchen cabinets has nothing", raw("1st Floor", "Kitchen Cabinets", 30), nil, []string{}},
		{"small bedroom", raw("1st Floor", "Bedroom", 70), nil, []string{"door 3x6.8", "window 3x3"}},
		{"office mid tier", raw("1st Floor", "Office", 100), nil, []string{"door 3x6.8", "window 4x3.5"}},
		{"large bedroom", raw("1st Floor", "Master Bedroom", 200), nil, []string{"door 3x6.8", "window 4x3.5", "window 3x3"}},
		{"huge study", raw("1st Floor", "Study", 300), nil, []string{"door 3x6.8", "window 4x3.5", "window 4x3.5", "window 3x3"}},
		{"small bathroom", raw("1st Floor", "Bathroom", 45), nil, []string{"door 2.5x6.8"}},
		{"large bathroom", raw("1st Floor", "Bathroom", 60), nil, []string{"door 2.5x6.8", "window 2x2.5"}},
		{"closet", raw("1st Floor", "Closet", 20), nil, []string{"door 2.5x6.8"}},
		{"lone kitchen", raw("1st Floor", "Kitchen", 120), nil, []string{"door 4x6.8", "window 4x3.5"}},
		{
			"kitchen next to living",
			raw("1st Floor", "Kitchen", 120),
			[]entity.RawRoom{raw("1st Floor", "Kitchen", 120), raw("1st Floor", "Living Room", 300)},
			[]string{"open_wall 8x8", "window 4x3.5"},
		},
		{
			"living on other floor is not adjacent",
			raw("1st Floor", "Kitchen", 120),
			[]entity.RawRoom{raw("2nd Floor", "Living Room", 300)},
			[]string{"door 4x6.8", "window 4x3.5"},
		},
		{
			"family room living tiers",
			raw("1st Floor", "Family Room", 200),
			[]entity.RawRoom{raw("1st Floor", "Dining", 150)},
			[]string{"open_wall 8x8", "window 6x4"},
		},
		{"large living", raw("1st Floor", "Living Room", 300), nil, []string{"door 4x6.8", "window 6x4", "window 4x3.5"}},
		{"small hall", raw("1st Floor", "Hallway", 60), nil, []string{}},
		{"big hall", raw("1st Floor", "Hall", 100), nil, []string{"window 4x3.5"}},
		{"default", raw("1st Floor", "Garage", 260), nil, []string{"door 3x6.8", "window 4x3.5", "window 4x3.5", "window 3x3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(e.Estimate(tt.room, tt.siblings))
			if len(got) != len(tt.want) {
				t.Fatalf("Estimate() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Estimate() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestEstimateFlags(t *testing.T) {
	ops := New(nil, nil).Estimate(raw("1st Floor", "Bedroom", 100), nil)
	for _, o := range ops {
		if o.IsExternal == o.IsInternal {
			t.Errorf("opening %+v must be exactly one of external/internal", o)
		}
		if o.Type == "window" && !o.IsExternal {
			t.Errorf("window %+v should be external", o)
		}
	}
}

func TestProfile(t *testing.T) {
	e := New(nil, nil)
	tests := map[string]string{
		"Storage Room":   "storage",
		"Guest Bedroom":  "private",
		"Half Bath":      "bathroom",
		"Linen Closet":   "closet",
		"Dining Room":    "living",
		"Corridor":       "hall",
		"Sunroom":        "default",
		"KITCHEN PANTRY": "storage",
	}
	for name, want := range tests {
		if got := e.Profile(name).Name; got != want {
			t.Errorf("Profile(%q) = %q, want %q", name, got, want)
		}
	}
}
