// Package pipeline chains format detection, extraction, classification,
// deduplication and transformation into one bounded run that always yields
// a non-empty result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/classify"
	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/dedup"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/extract"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
	"github.com/joseph-ayodele/room-measurements/internal/llm"
	"github.com/joseph-ayodele/room-measurements/internal/transform"
)

// DefaultTimeout bounds a run when Config.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// Config holds engine behavior.
type Config struct {
	Timeout time.Duration // default 60s
}

// ConfigFromApp maps the env-driven pipeline section onto Config.
func ConfigFromApp(c common.PipelineConfig) Config {
	return Config{Timeout: c.Timeout}
}

// Option customizes an Engine at construction.
type Option func(*Engine)

// WithClassifier injects the remote classifier consulted for ambiguous names.
func WithClassifier(c llm.AmbiguousClassifier) Option {
	return func(e *Engine) { e.remote = c }
}

// WithTable replaces the built-in heuristics table.
func WithTable(t *heuristics.Table) Option {
	return func(e *Engine) { e.table = t }
}

// WithExtractor overrides the extractor used for one format.
func WithExtractor(f constants.Format, x extract.Extractor) Option {
	return func(e *Engine) { e.extractors[f] = x }
}

// Engine is immutable after NewEngine and safe for concurrent use.
type Engine struct {
	cfg         Config
	table       *heuristics.Table
	remote      llm.AmbiguousClassifier
	extractors  map[constants.Format]extract.Extractor
	classifier  *classify.Classifier
	dedup       *dedup.Deduplicator
	transformer *transform.Transformer
	logger      *slog.Logger
}

// Result is a run's output plus what a caller needs to judge it.
type Result struct {
	RunID     string            `json:"run_id"`
	Format    constants.Format  `json:"format,omitempty"`
	Locations []entity.Location `json:"locations"`
	// Degraded is set when any part of the output came from a fallback or
	// from low-confidence extraction.
	Degraded bool          `json:"degraded"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

func NewEngine(cfg Config, logger *slog.Logger, opts ...Option) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	e := &Engine{
		cfg:        cfg,
		extractors: make(map[constants.Format]extract.Extractor),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.table == nil {
		e.table = heuristics.Default()
	}
	for _, f := range []constants.Format{
		constants.FormatCSVTable, constants.FormatPDFTable,
		constants.FormatImageOCR, constants.FormatJSONData,
	} {
		if _, ok := e.extractors[f]; !ok {
			e.extractors[f] = extract.ForFormat(f, e.table, logger)
		}
	}

	var err error
	if e.classifier, err = classify.New(e.table, e.remote, logger); err != nil {
		return nil, common.NewAppError("ENGINE_INIT", "build classifier", err)
	}
	if e.dedup, err = dedup.New(e.table, logger); err != nil {
		return nil, common.NewAppError("ENGINE_INIT", "build deduplicator", err)
	}
	e.transformer = transform.New(e.table, logger)
	return e, nil
}

// Process returns the measured locations for raw text. fileType is one of
// constants.FileTypes and only steers format detection. The result is never
// empty; see ProcessDetailed for how much of it was defaulted.
func (e *Engine) Process(ctx context.Context, raw, fileType string) []entity.Location {
	return e.ProcessDetailed(ctx, raw, fileType).Locations
}

// ProcessDetailed runs the pipeline under the engine timeout and the caller's
// context. Timeout, cancellation or a panic yields the canned fallback
// locations with a warning wrapping common.ErrPipelineTimeout.
func (e *Engine) ProcessDetailed(ctx context.Context, raw, fileType string) Result {
	start := time.Now()
	runID := common.RequestIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
		ctx = common.WithRequestID(ctx, runID)
	}
	log := e.logger.With("run_id", runID, "file_type", fileType)
	if src := common.SourceFromContext(ctx); src != "" {
		log = log.With("source", src)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	done := make(chan Result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("pipeline.panic", "panic", r)
				done <- failedResult(fmt.Errorf("%w: panic: %v", common.ErrPipelineTimeout, r))
			}
		}()
		done <- e.run(ctx, log, raw, fileType)
	}()

	var res Result
	select {
	case res = <-done:
	case <-ctx.Done():
		log.Error("pipeline.timeout", "timeout", e.cfg.Timeout, "err", ctx.Err())
		res = failedResult(fmt.Errorf("%w: %v", common.ErrPipelineTimeout, ctx.Err()))
	}

	res.RunID = runID
	res.Duration = time.Since(start)
	log.Info("pipeline.done",
		"format", res.Format,
		"locations", len(res.Locations),
		"rooms", entity.RoomCount(res.Locations),
		"degraded", res.Degraded,
		"warnings", len(res.Warnings),
		"duration", res.Duration,
	)
	return res
}

func failedResult(err error) Result {
	return Result{
		Locations: transform.FallbackLocations(),
		Degraded:  true,
		Warnings:  []string{common.StageError("ENGINE", err).Error()},
	}
}
