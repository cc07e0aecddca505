package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/llm"
)

// ClassifyAmbiguous implements llm.AmbiguousClassifier using text-only
// chat/completions. The whole batch goes out in one request; failed attempts
// are retried up to MaxAttempts, paced by the client's rate limiter.
func (c *Client) ClassifyAmbiguous(ctx context.Context, candidates []llm.Candidate) ([]bool, error) {
	if len(candidates) == 0 {
		return []bool{}, nil
	}

	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	start := time.Now()

	c.log.Info("llm.classify.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"candidates", len(candidates),
	)

	schema := llm.BuildClassifyJSONSchema(len(candidates))
	sys, user := llm.BuildClassifyPrompt(candidates)
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		out, err := c.classifyOnce(ctx, rid, endpoint, body, schema)
		if err == nil {
			c.log.Info("llm.classify.ok",
				"req_id", rid,
				"attempt", attempt,
				"accepted", countTrue(out),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return out, nil
		}
		lastErr = err
		if attempt == c.cfg.MaxAttempts || !retryable(err) {
			break
		}

		c.log.Warn("llm.classify.retry", "req_id", rid, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.Backoff * time.Duration(attempt)):
		}
	}

	c.log.Error("llm.classify.failed",
		"req_id", rid, "error", lastErr,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil, lastErr
}

func (c *Client) classifyOnce(ctx context.Context, rid, endpoint string, body, schema map[string]any) ([]bool, error) {
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.classify.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.classify.no_choices", "req_id", rid, "raw", string(raw))
		return nil, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	// Validate strictly first.
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		if !c.cfg.LenientOptional {
			c.log.Error("llm.classify.schema_validation_failed", "req_id", rid, "error", err, "content", string(content))
			return nil, fmt.Errorf("schema validation failed: %w", err)
		}
		cleaned, changed, sErr := llm.NormalizeAndSanitizeJSON(content, c.log)
		if sErr != nil {
			c.log.Error("llm.classify.sanitize_failed", "req_id", rid, "error", sErr)
			return nil, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("llm.classify.schema_validation_failed", "req_id", rid, "error", vErr, "content", string(content))
			return nil, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("llm.classify.lenient_sanitize_applied", "req_id", rid, "changed", changed)
		content = cleaned
	}

	var out llm.ClassifyResult
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return out.IsRoom, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *llm.StatusError
	if errors.As(err, &se) {
		return se.Retryable()
	}
	return true
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
