package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// convertHEICtoPNG converts a phone photo in HEIC/HEIF to a temporary PNG.
// Returns (outPath, warnings, cleanup, err); cleanup is never nil once the
// temp dir exists.
func convertHEICtoPNG(ctx context.Context, r Runner, logger *slog.Logger, converter, in string) (string, []string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "rm-heic-*")
	if err != nil {
		return "", nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")

	var args []string
	switch converter {
	case "heif-convert", "magick":
		args = []string{in, out}
	case "sips":
		args = []string{"-s", "format", "png", in, "--out", out}
	default:
		return "", nil, cleanup, fmt.Errorf("HEIC not supported: set ocr.Config.HeicConverter to one of: heif-convert | magick | sips")
	}
	if _, errb, err := r.Run(ctx, logger, converter, args...); err != nil {
		return "", []string{string(errb)}, cleanup, fmt.Errorf("%s failed: %w", converter, err)
	}

	if _, statErr := os.Stat(out); statErr != nil {
		return "", nil, cleanup, fmt.Errorf("HEIC conversion produced no output: %v", statErr)
	}
	return out, nil, cleanup, nil
}

var (
	reDimension = regexp.MustCompile(`\d+(\.\d+)?\s*'?\s*x\s*\d+`)
	reFeetMark  = regexp.MustCompile(`\d+\s*'(\s*\d+\s*")?`)
	reRoomWord  = regexp.MustCompile(`\b(room|kitchen|bed|bath|living|dining|hall|closet|floor|level)\b`)
	reAreaUnit  = regexp.MustCompile(`\b(sq\.?\s*ft|sf|lf)\b`)
)

// heuristicConfidence scores OCR text by how much it looks like a measured
// sketch: dimension pairs, feet marks, room words, area units.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2)
	if reDimension.MatchString(txtL) {
		score += 0.25
	}
	if reFeetMark.MatchString(txtL) {
		score += 0.1
	}
	if reRoomWord.MatchString(txtL) {
		score += 0.2
	}
	if reAreaUnit.MatchString(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
