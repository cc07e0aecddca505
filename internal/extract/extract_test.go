package extract

import (
	"errors"
	"testing"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
)

func deref(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}

func TestFloorName(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"1st Floor", "1st Floor", true},
		{"2 floor", "2nd Floor", true},
		{"11 Floor:", "11th Floor", true},
		{"23rd floor", "23rd Floor", true},
		{"GROUND FLOOR", "Ground Floor", true},
		{"basement", "Basement", true},
		{"main  level", "Main Level", true},
		{"Level 2", "Level 2", true},
		{"Kitchen", "", false},
		{"Floor Attributes", "", false},
	}
	for _, tt := range tests {
		got, ok := floorName(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("floorName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCleanRoomName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"kitchen", "Kitchen"},
		{"Room 3: master bedroom", "Master Bedroom"},
		{"LIVING ROOM : sq ft 200", "Living Room"},
		{"  dining   room ", "Dining Room"},
		{"Room 1", "Room 1"},
	}
	for _, tt := range tests {
		if got := cleanRoomName(tt.in); got != tt.want {
			t.Errorf("cleanRoomName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	// full-width digits and CRLF from OCR engines
	if got := normalizeText("Ｋitchen １２\r\nBath"); got != "Kitchen 12\nBath" {
		t.Errorf("normalizeText() = %q", got)
	}
}

func TestCSVExtractor(t *testing.T) {
	raw := "ROOM ATTRIBUTES,,\n" +
		"1st Floor\n" +
		"Kitchen,120,10x12\n" +
		"Bathroom,45 sq ft\n" +
		"Room 2: Bedroom,,11 x 12 x 9\n" +
		"Ground Floor,,\n" +
		"OBJECT COUNT,4\n" +
		"Laundry,abc\n" +
		"no commas here\n"
	rooms, err := NewCSVExtractor(nil, nil).Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []struct {
		floor, name           string
		length, width, height float64
		area                  float64
	}{
		{"1st Floor", "Kitchen", 10, 12, 8, 120},
		{"1st Floor", "Bathroom", 7.3, 6.1, 8, 45},
		{"1st Floor", "Bedroom", 11, 12, 9, 132},
		{"Ground Floor", "Laundry", 10, 10, 8, 100},
	}
	if len(rooms) != len(want) {
		t.Fatalf("Extract() returned %d rooms, want %d: %+v", len(rooms), len(want), rooms)
	}
	for i, w := range want {
		r := rooms[i]
		d := r.Dimensions
		if r.Floor != w.floor || r.Name != w.name || d.Length != w.length || d.Width != w.width || d.Height != w.height || deref(d.Area) != w.area {
			t.Errorf("room[%d] = %s/%s %v×%v×%v area %v; want %+v", i, r.Floor, r.Name, d.Length, d.Width, d.Height, deref(d.Area), w)
		}
		if r.SourceConfidence != constants.ConfidenceCSV {
			t.Errorf("room[%d] confidence = %v, want %v", i, r.SourceConfidence, constants.ConfidenceCSV)
		}
	}
}

func TestCSVExtractorDefaultsFloor(t *testing.T) {
	rooms, err := NewCSVExtractor(nil, nil).Extract("Den,80")
	if err != nil || len(rooms) != 1 || rooms[0].Floor != constants.DefaultFloor {
		t.Errorf("Extract() = %+v, %v; want one room on %q", rooms, err, constants.DefaultFloor)
	}
}

func TestPDFExtractorDefaultsFloor(t *testing.T) {
	raw := "Office Height: 8' 0\"\n120 SF Floor\n44 LF Floor Perimeter"
	rooms, err := NewPDFExtractor(nil, nil).Extract(raw)
	if err != nil || len(rooms) != 1 || rooms[0].Floor != constants.DefaultFloor {
		t.Errorf("Extract() = %+v, %v; want one room on %q", rooms, err, constants.DefaultFloor)
	}
}

func TestExtractorsFallBack(t *testing.T) {
	tests := []struct {
		name string
		ext  Extractor
		raw  string
		want int
	}{
		{"csv", NewCSVExtractor(nil, nil), "garbage", 2},
		{"ocr", NewOCRExtractor(nil, nil), "", 1},
		{"pdf", NewPDFExtractor(nil, nil), "no headers at all", 1},
		{"json invalid", NewJSONExtractor(nil, nil), "{not json", 1},
		{"json empty", NewJSONExtractor(nil, nil), `{"measurements": []}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms, err := tt.ext.Extract(tt.raw)
			if !errors.Is(err, common.ErrExtractionEmpty) {
				t.Errorf("Extract() error = %v, want ErrExtractionEmpty", err)
			}
			if len(rooms) != tt.want {
				t.Fatalf("Extract() returned %d rooms, want %d", len(rooms), tt.want)
			}
			for _, r := range rooms {
				d := r.Dimensions
				if !r.Fallback || d.Length != 10 || d.Width != 10 || d.Height != 8 || r.SourceConfidence != constants.ConfidenceFallback {
					t.Errorf("fallback room = %+v, want sentinel dims with Fallback set", r)
				}
			}
		})
	}
}

func TestOCRExtractor(t *testing.T) {
	raw := "2nd floor\nKitchen 12 x 10\nBedroom 2: 11.5x10\nscribbles\nBath,45"
	rooms, err := NewOCRExtractor(nil, nil).Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("Extract() returned %d rooms, want 3: %+v", len(rooms), rooms)
	}
	if r := rooms[0]; r.Name != "Kitchen" || r.Floor != "2nd Floor" || r.Dimensions.Length != 12 || r.Dimensions.Width != 10 ||
		deref(r.Dimensions.Area) != 120 || r.SourceConfidence != constants.ConfidenceOCR {
		t.Errorf("rooms[0] = %+v", r)
	}
	if r := rooms[1]; r.Name != "Bedroom 2" || r.Dimensions.Length != 11.5 || deref(r.Dimensions.Area) != 115 {
		t.Errorf("rooms[1] = %+v", r)
	}
	if r := rooms[2]; r.Name != "Bath" || r.SourceConfidence != constants.ConfidenceOCRTabular || deref(r.Dimensions.Area) != 45 {
		t.Errorf("rooms[2] = %+v", r)
	}
}

func TestJSONExtractor(t *testing.T) {
	raw := `{"measurements": [
		{"elevation": "2nd Floor", "room": "master bedroom", "dimensions": {"length": 14, "width": 12, "height": 9}},
		{"room": "Office", "dimensions": {"length": 9}},
		{}
	]}`
	rooms, err := NewJSONExtractor(nil, nil).Extract(raw)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := []entity.RawRoom{
		{Floor: "2nd Floor", Name: "Master Bedroom", Dimensions: entity.RawDimensions{Length: 14, Width: 12, Height: 9}},
		{Floor: "1st Floor", Name: "Office", Dimensions: entity.RawDimensions{Length: 9, Width: 10, Height: 8}},
		{Floor: "1st Floor", Name: "Room", Dimensions: entity.RawDimensions{Length: 10, Width: 10, Height: 8}},
	}
	if len(rooms) != len(want) {
		t.Fatalf("Extract() returned %d rooms, want %d", len(rooms), len(want))
	}
	for i, w := range want {
		r := rooms[i]
		if r.Floor != w.Floor || r.Name != w.Name || r.Dimensions.Length != w.Dimensions.Length ||
			r.Dimensions.Width != w.Dimensions.Width || r.Dimensions.Height != w.Dimensions.Height {
			t.Errorf("room[%d] = %+v, want %+v", i, r, w)
		}
		if r.SourceConfidence != constants.ConfidenceJSON {
			t.Errorf("room[%d] confidence = %v", i, r.SourceConfidence)
		}
	}
}

const estimateText = `Main Level
Living Room Height: 9' 0"
350 SF Walls
200 SF Ceiling
44 LF Floor Perimeter
Door 3' X 6' 8" Opens into Exterior
Door 3' X 6' 8" Opens into Exterior
Bedroom Height: Peaked
120.5 SF Floor  400 SF Walls & Ceiling
Window 4' X 3'
Missing Wall - Goes to Floor 8' X 8' Opens into Kitchen
Closet Height: 8'
Some note line
Basement
Storage Height: 7' 6"
1,020.25 SF Walls
`

func TestPDFExtractor(t *testing.T) {
	rooms, err := NewPDFExtractor(nil, nil).Extract(estimateText)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("Extract() returned %d rooms, want 3 (closet discarded): %+v", len(rooms), rooms)
	}

	living := rooms[0]
	d := living.Dimensions
	if living.Name != "Living Room" || living.Floor != "Main Level" || d.Height != 9 ||
		deref(d.WallArea) != 350 || deref(d.CeilingArea) != 200 || deref(d.Perimeter) != 44 || d.Area != nil {
		t.Errorf("living room = %+v dims %+v", living, d)
	}
	if len(living.Openings) != 1 {
		t.Fatalf("living room openings = %+v, want one (duplicate suppressed)", living.Openings)
	}
	door := living.Openings[0]
	if door.Type != constants.OpeningDoor || door.Width != 3 || door.Height != 6.667 ||
		!door.IsExternal || door.IsInternal || door.OpensInto != "Exterior" || door.Size != `3' X 6' 8"` {
		t.Errorf("door = %+v", door)
	}

	bed := rooms[1]
	if bed.Dimensions.HeightLabel != "Peaked" || bed.Dimensions.Height != 8 ||
		deref(bed.Dimensions.Area) != 120.5 || deref(bed.Dimensions.WallsAndCeiling) != 400 {
		t.Errorf("bedroom dims = %+v", bed.Dimensions)
	}
	if len(bed.Openings) != 2 {
		t.Fatalf("bedroom openings = %+v", bed.Openings)
	}
	if w := bed.Openings[0]; w.Type != constants.OpeningWindow || w.Width != 4 || w.Height != 3 || !w.IsExternal {
		t.Errorf("window = %+v", w)
	}
	if o := bed.Openings[1]; o.Type != constants.OpeningOpenWall || o.Width != 8 || o.Height != 8 || !o.IsInternal || o.OpensInto != "Kitchen" {
		t.Errorf("missing wall = %+v", o)
	}

	storage := rooms[2]
	if storage.Floor != "Basement" || storage.Dimensions.Height != 7.5 || deref(storage.Dimensions.WallArea) != 1020.25 {
		t.Errorf("storage = %+v dims %+v", storage, storage.Dimensions)
	}
}

func TestParseFeet(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{`6' 8"`, 6 + 8.0/12, true},
		{`6'8"`, 6 + 8.0/12, true},
		{`3'`, 3, true},
		{`30"`, 2.5, true},
		{`9.5`, 9.5, true},
		{`8 ft`, 8, true},
		{`Sloped`, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseFeet(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseFeet(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestForFormat(t *testing.T) {
	tests := []struct {
		f    constants.Format
		want string
	}{
		{constants.FormatCSVTable, "*extract.CSVExtractor"},
		{constants.FormatPDFTable, "*extract.PDFExtractor"},
		{constants.FormatImageOCR, "*extract.OCRExtractor"},
		{constants.FormatJSONData, "*extract.JSONExtractor"},
		{constants.Format("bogus"), "*extract.CSVExtractor"},
	}
	for _, tt := range tests {
		got := ForFormat(tt.f, nil, nil)
		var name string
		switch got.(type) {
		case *CSVExtractor:
			name = "*extract.CSVExtractor"
		case *PDFExtractor:
			name = "*extract.PDFExtractor"
		case *OCRExtractor:
			name = "*extract.OCRExtractor"
		case *JSONExtractor:
			name = "*extract.JSONExtractor"
		}
		if name != tt.want {
			t.Errorf("ForFormat(%q) = %s, want %s", tt.f, name, tt.want)
		}
	}
}
