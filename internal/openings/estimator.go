// Package openings estimates plausible doors, windows and open walls for rooms
// whose source listed none.
package openings

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/room-measurements/constants"
	"github.com/joseph-ayodele/room-measurements/internal/entity"
	"github.com/joseph-ayodele/room-measurements/internal/heuristics"
)

type Estimator struct {
	table  *heuristics.Table
	logger *slog.Logger
}

func New(table *heuristics.Table, logger *slog.Logger) *Estimator {
	if table == nil {
		table = heuristics.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Estimator{table: table, logger: logger}
}

// Profile returns the opening profile whose match terms hit the room name.
func (e *Estimator) Profile(name string) heuristics.Profile {
	lower := strings.ToLower(name)
	for _, p := range e.table.Profiles {
		for _, m := range p.Match {
			if strings.Contains(lower, strings.ToLower(m)) {
				return p
			}
		}
	}
	return e.table.DefaultProfile
}

// Estimate returns the openings a room of this type and size typically has.
// siblings are the other rooms on the same floor; they decide whether a
// living space opens onto an adjacent one.
func (e *Estimator) Estimate(room entity.RawRoom, siblings []entity.RawRoom) []entity.Opening {
	p := e.Profile(room.Name)
	area := room.Dimensions.EffectiveArea()
	out := make([]entity.Opening, 0, 4)

	switch {
	case p.OpenWall != nil && e.Connected(room, siblings):
		out = append(out, opening(constants.OpeningOpenWall, *p.OpenWall))
	case p.Door != nil:
		out = append(out, opening(constants.OpeningDoor, *p.Door))
	}

	for _, w := range e.windows(p, area) {
		out = append(out, opening(constants.OpeningWindow, w))
	}

	e.logger.Debug("openings.estimated", "room", room.Name, "profile", p.Name, "area", area, "count", len(out))
	return out
}

func (e *Estimator) windows(p heuristics.Profile, area float64) []heuristics.Size {
	switch p.Windows {
	case heuristics.WindowsFixed:
		if p.Window != nil && area > p.MinAreaForWindows {
			return []heuristics.Size{*p.Window}
		}
		return nil
	case heuristics.WindowsTiers, heuristics.WindowsLiving:
		if p.MinAreaForWindows > 0 && area <= p.MinAreaForWindows {
			return nil
		}
		for _, tier := range e.table.WindowTiers {
			if tier.Below == 0 || area < tier.Below {
				if p.Windows == heuristics.WindowsLiving {
					return tier.Living
				}
				return tier.Standard
			}
		}
	}
	return nil
}

// Connected reports whether room and another room on its floor form a pair in
// the adjacency table.
func (e *Estimator) Connected(room entity.RawRoom, siblings []entity.RawRoom) bool {
	mine := e.adjacencyTerms(room.Name)
	if len(mine) == 0 {
		return false
	}
	for _, s := range siblings {
		if s.Name == room.Name || s.Floor != room.Floor {
			continue
		}
		for _, theirs := range e.adjacencyTerms(s.Name) {
			for _, m := range mine {
				if e.adjacent(m, theirs) {
					return true
				}
			}
		}
	}
	return false
}

func (e *Estimator) adjacencyTerms(name string) []string {
	lower := strings.ToLower(name)
	var terms []string
	seen := make(map[string]bool)
	for _, pair := range e.table.Adjacency {
		for _, t := range pair {
			t = strings.ToLower(t)
			if !seen[t] && strings.Contains(lower, t) {
				seen[t] = true
				terms = append(terms, t)
			}
		}
	}
	return terms
}

func (e *Estimator) adjacent(a, b string) bool {
	for _, pair := range e.table.Adjacency {
		if len(pair) != 2 {
			continue
		}
		x, y := strings.ToLower(pair[0]), strings.ToLower(pair[1])
		if (a == x && b == y) || (a == y && b == x) {
			return true
		}
	}
	return false
}

func opening(t constants.OpeningType, s heuristics.Size) entity.Opening {
	ext := constants.DefaultExternal(t)
	return entity.Opening{
		Type:       t,
		Width:      s.Width,
		Height:     s.Height,
		IsExternal: ext,
		IsInternal: !ext,
	}
}
