package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/export"
	"github.com/joseph-ayodele/room-measurements/internal/ocr"
	"github.com/joseph-ayodele/room-measurements/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		fileType = flag.String("type", "", "file type hint: csv | pdf | image | json (default: from extension)")
		out      = flag.String("out", "", "write results here; .xlsx writes a workbook, anything else JSON (default: stdout JSON)")
		detailed = flag.Bool("detailed", false, "include run id, format, degraded flag and warnings in the JSON")
		debug    = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		printError("usage: measure [flags] <file>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	// logs go to stderr so stdout stays parseable JSON
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	engine, err := pipeline.NewEngineFromConfig(cfg, logger)
	if err != nil {
		logger.Error("build engine", "err", err)
		os.Exit(1)
	}

	ctx := common.WithSource(context.Background(), path)
	text, err := ocr.NewExtractor(ocr.ConfigFromApp(cfg.OCR), logger).Extract(ctx, path)
	if err != nil {
		// the engine still produces its fallback structure from empty text
		logger.Error("text extraction failed", "path", path, "err", err)
	}
	hint := *fileType
	if hint == "" {
		hint = text.FileType
	}

	res := engine.ProcessDetailed(ctx, text.Text, hint)

	if strings.EqualFold(filepath.Ext(*out), ".xlsx") {
		data, err := export.NewService(logger).ExportXLSX([]export.Input{{Source: path, Locations: res.Locations, Degraded: res.Degraded}})
		if err != nil {
			logger.Error("export xlsx", "err", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write output", "path", *out, "err", err)
			os.Exit(1)
		}
		return
	}

	var payload any = res.Locations
	if *detailed {
		payload = res
	}
	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("create output", "path", *out, "err", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		logger.Error("encode output", "err", err)
		os.Exit(1)
	}
}
