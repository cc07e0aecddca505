package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/llm"
	"github.com/joseph-ayodele/room-measurements/internal/llm/openai"
)

// llm sends the same batch of room names to the remote classifier several
// times and logs every verdict, to check how stable the answers are.
func main() {
	times := flag.Int("times", 3, "how many times to classify the batch")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if flag.NArg() == 0 {
		logger.Error("usage: llm [-times N] <name[=area]>...")
		os.Exit(2)
	}
	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		logger.Error("OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	candidates := make([]llm.Candidate, 0, flag.NArg())
	for _, arg := range flag.Args() {
		name, areaStr, _ := strings.Cut(arg, "=")
		area, _ := strconv.ParseFloat(areaStr, 64)
		candidates = append(candidates, llm.Candidate{Name: name, Area: area})
	}

	client := openai.NewClient(openai.ConfigFromApp(cfg.LLM), logger)

	agree := make([]int, len(candidates))
	for i := 1; i <= *times; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		start := time.Now()
		verdicts, err := client.ClassifyAmbiguous(ctx, candidates)
		cancel()
		if err != nil {
			logger.Error("classify.run.error", "iter", i, "err", err)
			continue
		}
		for j, v := range verdicts {
			if v {
				agree[j]++
			}
		}
		logger.Info("classify.run.ok", "iter", i, "verdicts", verdicts, "elapsed_ms", time.Since(start).Milliseconds())
		time.Sleep(750 * time.Millisecond)
	}

	for j, c := range candidates {
		logger.Info("classify.summary", "name", c.Name, "area", c.Area, "is_room_votes", agree[j], "runs", *times)
	}
}
