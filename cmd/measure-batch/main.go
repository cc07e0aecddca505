package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joseph-ayodele/room-measurements/internal/async"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/export"
	"github.com/joseph-ayodele/room-measurements/internal/ingest"
	"github.com/joseph-ayodele/room-measurements/internal/ocr"
	"github.com/joseph-ayodele/room-measurements/internal/pipeline"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

type collector struct {
	mu     sync.Mutex
	inputs []export.Input
	failed int
}

func (c *collector) add(job async.Job, res pipeline.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inputs = append(c.inputs, export.Input{Source: job.Path, Locations: res.Locations, Degraded: res.Degraded})
	if res.Degraded {
		c.failed++
	}
}

func main() {
	var (
		dir        = flag.String("dir", "", "directory to process measurement files from (required)")
		out        = flag.String("out", "", "output XLSX file path (optional, defaults to parent directory)")
		watch      = flag.Bool("watch", false, "keep running and process files as they appear; writes the workbook on exit")
		skipHidden = flag.Bool("skip-hidden", true, "skip hidden files and directories")
		keepDups   = flag.Bool("keep-duplicates", false, "process files whose content repeats an earlier file")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "measurements.xlsx")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
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
	extractor := ocr.NewExtractor(ocr.ConfigFromApp(cfg.OCR), logger)

	results := &collector{}
	queue := async.NewProcessorQueue(engine, logger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		// text extraction shares the job budget with the engine run
		async.WithProcessTimeout(cfg.Pipeline.Timeout+2*time.Minute),
		async.WithLoader(func(ctx context.Context, job async.Job) (string, error) {
			res, err := extractor.Extract(ctx, job.Path)
			return res.Text, err
		}),
		async.WithHandler(results.add),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	enqueued := 0
	if *watch {
		events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       []string{*dir},
			InitialScan: true,
			Debounce:    500 * time.Millisecond,
			SkipHidden:  *skipHidden,
		}, logger)
		if err != nil {
			logger.Error("start watcher", "err", err)
			os.Exit(1)
		}
		logger.Info("watching directory", "dir", *dir)
		for events != nil || errs != nil {
			select {
			case p, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if err := queue.Enqueue(ctx, async.Job{Path: p, FileType: ingest.FileTypeOf(p)}); err == nil {
					enqueued++
				}
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				logger.Warn("watcher error", "err", err)
			}
		}
	} else {
		files, stats, err := ingest.NewFSIngestor(*skipHidden, logger).IngestDirectory(ctx, *dir)
		if err != nil {
			logger.Error("failed to scan directory", "err", err)
			os.Exit(1)
		}
		for _, f := range files {
			if f.Err != "" || (f.Deduplicated && !*keepDups) {
				continue
			}
			if err := queue.Enqueue(ctx, async.Job{Path: f.Path, FileType: f.FileType, TraceID: f.HashHex[:16]}); err != nil {
				logger.Error("enqueue", "path", f.Path, "err", err)
				continue
			}
			enqueued++
		}
		logger.Info("scan complete",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"deduplicated", stats.Deduplicated,
			"failed", stats.Failed,
			"enqueued", enqueued,
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Pipeline.Timeout+5*time.Minute)
	defer cancel()
	queue.Shutdown(shutdownCtx)

	results.mu.Lock()
	inputs := append([]export.Input(nil), results.inputs...)
	degraded := results.failed
	results.mu.Unlock()

	xlsxBytes, err := export.NewService(logger).ExportXLSX(export.SortBySource(inputs))
	if err != nil {
		logger.Error("failed to export measurements", "err", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0o644); err != nil {
		logger.Error("failed to write output file", "err", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_enqueued", enqueued,
		"files_processed", len(inputs),
		"degraded", degraded,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files processed: %d\n", len(inputs))
	fmt.Printf("- Degraded results: %d\n", degraded)
	fmt.Printf("- Output: %s\n", *out)
}
