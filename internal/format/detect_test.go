package format

import (
	"errors"
	"strings"
	"testing"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/common"
)

func TestDetect(t *testing.T) {
	long := strings.Repeat("Kitchen,120\n", 12)
	tests := []struct {
		name string
		raw  string
		hint string
		want constants.Format
	}{
		{"table marker beats pdf hint", "room attributes\nKitchen,120", "pdf", constants.FormatCSVTable},
		{"volume marker", "VOLUME,1200\n", "", constants.FormatCSVTable},
		{"room schedule is table first", "ROOM SCHEDULE\n", "pdf", constants.FormatCSVTable},
		{"pdf hint", "Living Room Height: 9'", "pdf", constants.FormatPDFTable},
		{"pdf hint case", "x", "PDF", constants.FormatPDFTable},
		{"takeoff marker", long + "Takeoff summary", "csv", constants.FormatPDFTable},
		{"image hint", long, "image", constants.FormatImageOCR},
		{"short text", "1st Floor\nKitchen,120,10x12", "csv", constants.FormatImageOCR},
		{"empty text", "", "csv", constants.FormatImageOCR},
		{"json", "{\n\"measurements\": [\n1,\n2,\n3,\n4,\n5,\n6,\n7,\n8\n]\n}", "json", constants.FormatJSONData},
		{"long csv", long, "csv", constants.FormatCSVTable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.raw, tt.hint); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectStrictAmbiguous(t *testing.T) {
	long := strings.Repeat("some text\n", 12)
	f, err := DetectStrict(long, "")
	if f != constants.FormatCSVTable || !errors.Is(err, common.ErrFormatDetectionAmbiguous) {
		t.Errorf("DetectStrict() = %v, %v; want csv_table, ErrFormatDetectionAmbiguous", f, err)
	}
	if _, err := DetectStrict("VOLUME", ""); err != nil {
		t.Errorf("DetectStrict(marker) error = %v, want nil", err)
	}
}

func TestDetectFromPath(t *testing.T) {
	tests := []struct {
		path string
		want constants.Format
	}{
		{"estimate.PDF", constants.FormatPDFTable},
		{"sketch.jpeg", constants.FormatImageOCR},
		{"export.csv", constants.FormatImageOCR},
	}
	for _, tt := range tests {
		if got := DetectFromPath(tt.path, "a\nb"); got != tt.want {
			t.Errorf("DetectFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
