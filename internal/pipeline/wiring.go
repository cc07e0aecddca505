package pipeline

import (
	"log/slog"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
	"github.com/joseph-ayodele/room-measurements/internal/llm/openai"
)

// NewEngineFromConfig builds an Engine from the env-driven application
// config: the heuristics override file and, when enabled, the OpenAI
// classifier for ambiguous room names.
func NewEngineFromConfig(cfg *common.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	table, err := heuristics.Load(cfg.Pipeline.HeuristicsFile)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline.heuristics.loaded", "version", table.Version, "file", cfg.Pipeline.HeuristicsFile)

	opts := []Option{WithTable(table)}
	if cfg.LLM.Enabled {
		opts = append(opts, WithClassifier(openai.NewClient(openai.ConfigFromApp(cfg.LLM), logger)))
		logger.Info("pipeline.classifier.remote", "model", cfg.LLM.Model, "base_url", cfg.LLM.BaseURL)
	} else {
		logger.Info("pipeline.classifier.keywords_only")
	}
	return NewEngine(ConfigFromApp(cfg.Pipeline), logger, opts...)
}
