// Package dedup removes noise, sentinel and duplicate room rows and numbers
// genuine repeats.
package dedup

import (
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

type Deduplicator struct {
	table  *heuristics.Table
	noise  []*regexp.Regexp
	logger *slog.Logger
}

func New(table *heuristics.Table, logger *slog.Logger) (*Deduplicator, error) {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	noise, err := heuristics.CompilePatterns(table.NoisePatterns)
	if err != nil {
		return nil, fmt.Errorf("dedup: %w", err)
	}
	return &Deduplicator{table: table, noise: noise, logger: logger}, nil
}

// Apply returns a new slice; input rows are copied, never mutated.
func (d *Deduplicator) Apply(rooms []entity.RawRoom) []entity.RawRoom {
	type key struct{ floor, name string }

	kept := make([]entity.RawRoom, 0, len(rooms))
	groups := make(map[key][]int)
	var tiny, noise, sentinel, dupes int

	for _, r := range rooms {
		dims := r.Dimensions
		if d.isTiny(dims) {
			tiny++
			continue
		}
		if d.isNoise(r.Name) {
			noise++
			continue
		}
		if d.table.IsSentinel(dims.Length, dims.Width, dims.Height) {
			sentinel++
			continue
		}
		k := key{r.Floor, r.Name}
		if d.duplicateOf(kept, groups[k], dims) {
			dupes++
			continue
		}
		groups[k] = append(groups[k], len(kept))
		kept = append(kept, r)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		for n, i := range idxs {
			kept[i].Name = fmt.Sprintf("%s #%d", kept[i].Name, n+1)
		}
	}

	d.logger.Debug("dedup.done",
		"in", len(rooms), "out", len(kept),
		"tiny", tiny, "noise", noise, "sentinel", sentinel, "duplicates", dupes,
	)
	return kept
}

func (d *Deduplicator) isTiny(dims entity.RawDimensions) bool {
	if dims.WallArea != nil || dims.WallsAndCeiling != nil {
		return false
	}
	return dims.EffectiveArea() < d.table.MinArea && dims.Length*dims.Width < d.table.MinArea
}

func (d *Deduplicator) isNoise(name string) bool {
	lower := strings.ToLower(name)
	for _, re := range d.noise {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (d *Deduplicator) duplicateOf(kept []entity.RawRoom, idxs []int, dims entity.RawDimensions) bool {
	tol := d.table.DedupTolerance
	for _, i := range idxs {
		o := kept[i].Dimensions
		if math.Abs(dims.Length-o.Length) < tol &&
			math.Abs(dims.Width-o.Width) < tol &&
			math.Abs(dims.EffectiveArea()-o.EffectiveArea()) < tol &&
			sameMeasured(dims, o, tol) {
			return true
		}
	}
	return false
}

// sameMeasured compares the estimating tool's figures, which carry the
// geometry for PDF rows whose length and width are unknown.
func sameMeasured(a, b entity.RawDimensions, tol float64) bool {
	return near(a.WallArea, b.WallArea, tol) &&
		near(a.WallsAndCeiling, b.WallsAndCeiling, tol) &&
		near(a.Perimeter, b.Perimeter, tol)
}

func near(a, b *float64, tol float64) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	default:
		return math.Abs(*a-*b) < tol
	}
}
