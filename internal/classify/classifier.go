// Package classify decides which extracted names are real rooms.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/room-measurements/internal/common"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
	"github.com/joseph-ayodele/room-measurements/internal/llm"
)

// Decision is the keyword verdict for one name.
type Decision int

const (
	Reject Decision = iota
	Accept
	Ambiguous
)

func (d Decision) String() string {
	switch d {
	case Reject:
		return "reject"
	case Accept:
		return "accept"
	default:
		return "ambiguous"
	}
}

// Classifier applies the reject patterns and room keywords from a heuristics
// table, deferring undecided names to an optional remote classifier.
type Classifier struct {
	notRoom  []*regexp.Regexp
	keywords []string
	words    []*regexp.Regexp
	remote   llm.AmbiguousClassifier
	logger   *slog.Logger
}

// New compiles the table's patterns. remote may be nil, in which case every
// ambiguous name is rejected.
func New(table *heuristics.Table, remote llm.AmbiguousClassifier, logger *slog.Logger) (*Classifier, error) {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	notRoom, err := heuristics.CompilePatterns(table.NotRoomPatterns)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	words := make([]*regexp.Regexp, 0, len(table.WordKeywords))
	for _, w := range table.WordKeywords {
		words = append(words, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	keywords := make([]string, len(table.RoomKeywords))
	for i, k := range table.RoomKeywords {
		keywords[i] = strings.ToLower(k)
	}
	return &Classifier{
		notRoom:  notRoom,
		keywords: keywords,
		words:    words,
		remote:   remote,
		logger:   logger,
	}, nil
}

// Decide returns the keyword verdict for a name.
func (c *Classifier) Decide(name string) Decision {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return Reject
	}
	for _, re := range c.notRoom {
		if re.MatchString(lower) {
			return Reject
		}
	}
	for _, k := range c.keywords {
		if strings.Contains(lower, k) {
			return Accept
		}
	}
	for _, re := range c.words {
		if re.MatchString(lower) {
			return Accept
		}
	}
	return Ambiguous
}

// Filter keeps accepted rooms and the ambiguous ones the remote classifier
// confirms, preserving input order. All ambiguous names go out in one batch.
// The returned error is informational: common.ErrClassificationUnavailable when
// ambiguous names had to be rejected because no answer was available.
func (c *Classifier) Filter(ctx context.Context, rooms []entity.RawRoom) ([]entity.RawRoom, error) {
	decisions := make([]Decision, len(rooms))
	var pending []int
	var candidates []llm.Candidate
	rejected := 0

	for i, r := range rooms {
		decisions[i] = c.Decide(r.Name)
		switch decisions[i] {
		case Ambiguous:
			pending = append(pending, i)
			candidates = append(candidates, llm.Candidate{Name: r.Name, Area: r.Dimensions.EffectiveArea()})
		case Reject:
			rejected++
		}
	}

	var classifyErr error
	if len(candidates) > 0 {
		verdicts, err := c.resolve(ctx, candidates)
		if err != nil {
			classifyErr = err
			c.logger.Warn("classify.remote.unavailable", "candidates", len(candidates), "error", err)
		}
		for j, idx := range pending {
			if verdicts != nil && verdicts[j] {
				decisions[idx] = Accept
			} else {
				decisions[idx] = Reject
				rejected++
			}
		}
	}

	out := make([]entity.RawRoom, 0, len(rooms))
	for i, r := range rooms {
		if decisions[i] == Accept {
			out = append(out, r)
		}
	}
	c.logger.Debug("classify.done", "in", len(rooms), "kept", len(out), "rejected", rejected, "ambiguous", len(candidates))
	return out, classifyErr
}

// resolve returns nil verdicts when the remote answer cannot be used.
func (c *Classifier) resolve(ctx context.Context, candidates []llm.Candidate) (verdicts []bool, err error) {
	if c.remote == nil {
		return nil, fmt.Errorf("%w: no classifier configured", common.ErrClassificationUnavailable)
	}
	defer func() {
		if r := recover(); r != nil {
			verdicts, err = nil, fmt.Errorf("%w: classifier panic: %v", common.ErrClassificationUnavailable, r)
		}
	}()
	verdicts, err = c.remote.ClassifyAmbiguous(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassificationUnavailable, err)
	}
	if len(verdicts) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d answers for %d candidates",
			common.ErrClassificationUnavailable, len(verdicts), len(candidates))
	}
	return verdicts, nil
}
