package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/format"
	"github.com/joseph-ayodele/room-measurements/internal/ocr"
)

// runocr prints the text the measurement pipeline would see for a file,
// plus the format it would be detected as.
func main() {
	psm := flag.Int("psm", 0, "tesseract page segmentation mode (0 = tesseract default)")
	tsv := flag.Bool("tsv-confidence", false, "compute word confidence with a second tesseract pass")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runocr [-psm N] [-tsv-confidence] <file>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cfg := ocr.ConfigFromApp(common.LoadConfig().OCR)
	cfg.PSM = *psm
	cfg.EnableTSVConfidence = *tsv

	start := time.Now()
	res, err := ocr.NewExtractor(cfg, logger).Extract(ctx, path)
	dur := time.Since(start)
	if err != nil {
		logger.Error("text extraction failed", "path", path, "err", err, "warnings", res.Warnings, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	detected, detectErr := format.DetectStrict(res.Text, res.FileType)
	logger.Info("text extraction OK",
		"method", res.Method,
		"pages", res.Pages,
		"bytes", len(res.Text),
		"confidence", res.Confidence,
		"format", detected,
		"format_ambiguous", detectErr != nil,
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(res.Text)
}
