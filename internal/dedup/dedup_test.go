package dedup

import (
	"testing"

	"github.com/joseph-ayodele/room-measurements/internal/entity"
)

func room(floor, name string, l, w, h float64) entity.RawRoom {
	return entity.RawRoom{
		Floor: floor,
		Name:  name,
		Dimensions: entity.RawDimensions{
			Length: l, Width: w, Height: h,
			Area: entity.Float(l * w),
		},
	}
}

func names(rs []entity.RawRoom) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Floor + "/" + r.Name
	}
	return out
}

func newDedup(t *testing.T) *Deduplicator {
	t.Helper()
	d, err := New(nil, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		in   []entity.RawRoom
		want []string
	}{
		{
			name: "identical rows collapse",
			in:   []entity.RawRoom{room("Ground Floor", "Bathroom", 7.3, 6.1, 8), room("Ground Floor", "Bathroom", 7.3, 6.1, 8)},
			want: []string{"Ground Floor/Bathroom"},
		},
		{
			name: "near-identical within tolerance collapse",
			in:   []entity.RawRoom{room("1st Floor", "Kitchen", 12, 10, 8), room("1st Floor", "Kitchen", 12.001, 10, 8)},
			want: []string{"1st Floor/Kitchen"},
		},
		{
			name: "differing dimensions are numbered in order",
			in: []entity.RawRoom{
				room("1st Floor", "Bedroom", 12, 10, 8),
				room("1st Floor", "Kitchen", 12, 12, 8),
				room("1st Floor", "Bedroom", 11, 10, 8),
				room("1st Floor", "Bedroom", 14, 12, 8),
			},
			want: []string{"1st Floor/Bedroom #1", "1st Floor/Kitchen", "1st Floor/Bedroom #2", "1st Floor/Bedroom #3"},
		},
		{
			name: "same name on different floors is not numbered",
			in:   []entity.RawRoom{room("1st Floor", "Bath", 8, 6, 8), room("2nd Floor", "Bath", 9, 6, 8)},
			want: []string{"1st Floor/Bath", "2nd Floor/Bath"},
		},
		{
			name: "duplicate of a numbered group member is dropped before numbering",
			in: []entity.RawRoom{
				room("1st Floor", "Bedroom", 12, 10, 8),
				room("1st Floor", "Bedroom", 11, 10, 8),
				room("1st Floor", "Bedroom", 12, 10, 8),
			},
			want: []string{"1st Floor/Bedroom #1", "1st Floor/Bedroom #2"},
		},
		{
			name: "sentinel dropped regardless of name",
			in:   []entity.RawRoom{room("1st Floor", "Living Room", 10, 10, 8), room("1st Floor", "Kitchen", 10, 10, 9)},
			want: []string{"1st Floor/Kitchen"},
		},
		{
			name: "tiny rows dropped",
			in:   []entity.RawRoom{room("1st Floor", "Closet", 0.5, 0.5, 8), room("1st Floor", "Pantry", 3, 2, 8)},
			want: []string{"1st Floor/Pantry"},
		},
		{
			name: "noise names dropped",
			in: []entity.RawRoom{
				room("1st Floor", "Kitchen Cabinets (24\")", 12, 2, 3),
				room("1st Floor", "Volume", 20, 20, 8),
				room("1st Floor", "Total Living Area", 40, 30, 8),
				room("1st Floor", "Office", 11, 10, 8),
			},
			want: []string{"1st Floor/Office"},
		},
		{
			name: "empty input",
			in:   nil,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(newDedup(t).Apply(tt.in))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Apply() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestApplyKeepsMeasuredRowsWithoutLengthWidth(t *testing.T) {
	pdf := entity.RawRoom{
		Floor: "1st Floor", Name: "Living Room",
		Dimensions: entity.RawDimensions{Height: 9, WallArea: entity.Float(350), CeilingArea: entity.Float(200)},
	}
	other := pdf
	other.Dimensions.WallArea = entity.Float(300)

	got := newDedup(t).Apply([]entity.RawRoom{pdf, pdf, other})
	if want := []string{"1st Floor/Living Room #1", "1st Floor/Living Room #2"}; len(got) != 2 || names(got)[0] != want[0] || names(got)[1] != want[1] {
		t.Errorf("Apply() = %v, want %v", names(got), want)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := []entity.RawRoom{room("1st Floor", "Den", 12, 10, 8), room("1st Floor", "Den", 10, 10, 9)}
	_ = newDedup(t).Apply(in)
	if in[0].Name != "Den" || in[1].Name != "Den" {
		t.Errorf("Apply() mutated input: %v", names(in))
	}
}
